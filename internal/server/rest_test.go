package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(data)
}

func TestRESTServer_Menu(t *testing.T) {
	stack := newTestStack(t, 4)

	t.Run("post then get returns the same snapshot", func(t *testing.T) {
		snapshot := `{"savedRecipes":[{"id":"r1","name":"秘制红烧肉","tags":["经典"]},{"id":"r2","name":"番茄炒蛋"}],"restaurants":[]}`

		resp, body := doRequest(t, http.MethodPost, stack.server.URL+"/api/menu/bob", snapshot)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"success":true}`, body)

		resp, body = doRequest(t, http.MethodGet, stack.server.URL+"/api/menu/bob", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.JSONEq(t, snapshot, body)
	})

	t.Run("never saved menu is not found", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodGet, stack.server.URL+"/api/menu/nobody", "")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Menu not found"}`, body)
	})

	t.Run("saved empty menu is found", func(t *testing.T) {
		resp, _ := doRequest(t, http.MethodPut, stack.server.URL+"/api/menu/empty", `{"savedRecipes":[],"restaurants":[]}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := doRequest(t, http.MethodGet, stack.server.URL+"/api/menu/empty", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"savedRecipes":[],"restaurants":[]}`, body)
	})

	t.Run("write replaces previous snapshot", func(t *testing.T) {
		doRequest(t, http.MethodPost, stack.server.URL+"/api/menu/carol", `{"savedRecipes":[{"id":"1"}],"restaurants":[{"id":"x"}]}`)
		doRequest(t, http.MethodPost, stack.server.URL+"/api/menu/carol", `{"savedRecipes":[]}`)

		_, body := doRequest(t, http.MethodGet, stack.server.URL+"/api/menu/carol", "")
		assert.JSONEq(t, `{"savedRecipes":[]}`, body)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodPost, stack.server.URL+"/api/menu/dave", `{"savedRecipes":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "error")

		resp, _ = doRequest(t, http.MethodGet, stack.server.URL+"/api/menu/dave", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		large := `{"notes":"` + strings.Repeat("x", 2048) + `"}`

		resp, _ := doRequest(t, http.MethodPost, stack.server.URL+"/api/menu/erin", large)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	})

	t.Run("cors preflight", func(t *testing.T) {
		resp, _ := doRequest(t, http.MethodOptions, stack.server.URL+"/api/menu/bob", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

func TestRESTServer_SendOrder(t *testing.T) {
	stack := newTestStack(t, 4)

	t.Run("publishes to the chef", func(t *testing.T) {
		conn := dialWebSocket(t, stack)
		registerChef(t, conn, 1, "alice")

		resp, body := doRequest(t, http.MethodPost, stack.server.URL+"/api/orders/alice", `{"name":"红烧肉","time":"2025-03-01T12:00:00.000Z"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var response map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &response))
		assert.Equal(t, true, response["success"])

		order := readNewOrder(t, conn)
		assert.Equal(t, "红烧肉", order.Name)
	})

	t.Run("offline chef still acknowledges", func(t *testing.T) {
		resp, _ := doRequest(t, http.MethodPost, stack.server.URL+"/api/orders/offline", `{"name":"a","time":"2025-03-01T12:00:00Z"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid order", func(t *testing.T) {
		resp, _ := doRequest(t, http.MethodPost, stack.server.URL+"/api/orders/alice", `{"name":""}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
