package server

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/handler"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWebSocket(t *testing.T, stack *testStack) *websocket.Conn {
	t.Helper()

	u, _ := url.Parse(stack.server.URL)
	u.Scheme = "ws"
	u.Path = "/websocket"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func call(t *testing.T, conn *websocket.Conn, request string) handler.Response {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(request)))

	var response handler.Response
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&response))

	return response
}

func registerChef(t *testing.T, conn *websocket.Conn, id int, chefId string) handler.RegisterChefResponse {
	t.Helper()

	params, _ := json.Marshal(chefId)
	request, _ := json.Marshal(map[string]any{"id": id, "method": "register-chef", "params": json.RawMessage(params)})

	response := call(t, conn, string(request))
	require.Nil(t, response.Error)

	var result handler.RegisterChefResponse
	require.NoError(t, json.Unmarshal(*response.Result, &result))

	return result
}

func readNewOrder(t *testing.T, conn *websocket.Conn) broadcaster.Order {
	t.Helper()

	var notification handler.Request
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&notification))
	require.Equal(t, "new-order", notification.Method)
	require.NotNil(t, notification.Params)

	var order broadcaster.Order
	require.NoError(t, json.Unmarshal(*notification.Params, &order))

	return order
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))

	_, _, err := conn.ReadMessage()

	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func waitForRegistrations(t *testing.T, stack *testStack, chefId string, n int) {
	t.Helper()

	assert.Eventually(t, func() bool {
		return len(stack.registry.Lookup(chefId)) == n
	}, time.Second, 10*time.Millisecond)
}

func TestWebSocketServer(t *testing.T) {
	t.Run("guest order reaches the registered chef only", func(t *testing.T) {
		stack := newTestStack(t, 4)

		chef := dialWebSocket(t, stack)
		otherChef := dialWebSocket(t, stack)
		guest := dialWebSocket(t, stack)

		registered := registerChef(t, chef, 1, "alice")
		assert.Equal(t, "alice", registered.ChefId)
		assert.NotEmpty(t, registered.ConnectionId)
		registerChef(t, otherChef, 1, "bob")

		response := call(t, guest, `{"id":7,"method":"send-order","params":{"chefId":"alice","order":{"name":"红烧肉","time":"2025-03-01T12:00:00.000Z"}}}`)
		require.Nil(t, response.Error)
		assert.Equal(t, 7, response.RequestId)

		var ack handler.SendOrderResponse
		require.NoError(t, json.Unmarshal(*response.Result, &ack))
		assert.True(t, ack.Success)

		order := readNewOrder(t, chef)
		assert.Equal(t, broadcaster.Order{Name: "红烧肉", Time: "2025-03-01T12:00:00.000Z"}, order)

		expectSilence(t, otherChef)
		expectSilence(t, guest)
	})

	t.Run("every connection of the chef receives the order", func(t *testing.T) {
		stack := newTestStack(t, 4)

		phone := dialWebSocket(t, stack)
		laptop := dialWebSocket(t, stack)
		guest := dialWebSocket(t, stack)

		registerChef(t, phone, 1, "alice")
		registerChef(t, laptop, 1, "alice")

		call(t, guest, `{"id":1,"method":"send-order","params":{"chefId":"alice","order":{"name":"A","time":"2025-03-01T12:00:00Z"}}}`)
		call(t, guest, `{"id":2,"method":"send-order","params":{"chefId":"alice","order":{"name":"B","time":"2025-03-01T12:00:01Z"}}}`)

		for _, conn := range []*websocket.Conn{phone, laptop} {
			assert.Equal(t, "A", readNewOrder(t, conn).Name)
			assert.Equal(t, "B", readNewOrder(t, conn).Name)
		}
	})

	t.Run("send-order without id gets no reply", func(t *testing.T) {
		stack := newTestStack(t, 4)

		chef := dialWebSocket(t, stack)
		guest := dialWebSocket(t, stack)
		registerChef(t, chef, 1, "alice")

		require.NoError(t, guest.WriteMessage(websocket.TextMessage,
			[]byte(`{"method":"send-order","params":{"chefId":"alice","order":{"name":"A","time":"2025-03-01T12:00:00Z"}}}`)))

		assert.Equal(t, "A", readNewOrder(t, chef).Name)
		expectSilence(t, guest)
	})

	t.Run("repeated register is idempotent", func(t *testing.T) {
		stack := newTestStack(t, 4)

		chef := dialWebSocket(t, stack)
		registerChef(t, chef, 1, "alice")
		registerChef(t, chef, 2, "alice")

		assert.Len(t, stack.registry.Lookup("alice"), 1)
		assert.Equal(t, 1, stack.router.Publish("alice", broadcaster.Order{Name: "A", Time: "2025-03-01T12:00:00Z"}))
		assert.Equal(t, "A", readNewOrder(t, chef).Name)
		expectSilence(t, chef)
	})

	t.Run("register under a second chef is rejected", func(t *testing.T) {
		stack := newTestStack(t, 4)

		chef := dialWebSocket(t, stack)
		registerChef(t, chef, 1, "alice")

		response := call(t, chef, `{"id":2,"method":"register-chef","params":"bob"}`)

		require.NotNil(t, response.Error)
		assert.Equal(t, "FailedPrecondition", string(response.Error.Code))
		assert.Empty(t, stack.registry.Lookup("bob"))
	})

	t.Run("disconnect unregisters the chef", func(t *testing.T) {
		stack := newTestStack(t, 4)

		chef := dialWebSocket(t, stack)
		registerChef(t, chef, 1, "alice")
		require.NoError(t, chef.Close())

		waitForRegistrations(t, stack, "alice", 0)
		assert.Equal(t, 0, stack.router.Publish("alice", broadcaster.Order{Name: "A", Time: "2025-03-01T12:00:00Z"}))
	})

	t.Run("reconnect must register again", func(t *testing.T) {
		stack := newTestStack(t, 4)

		first := dialWebSocket(t, stack)
		registerChef(t, first, 1, "alice")
		require.NoError(t, first.Close())
		waitForRegistrations(t, stack, "alice", 0)

		stack.router.Publish("alice", broadcaster.Order{Name: "lost", Time: "2025-03-01T12:00:00Z"})

		second := dialWebSocket(t, stack)
		registerChef(t, second, 1, "alice")
		stack.router.Publish("alice", broadcaster.Order{Name: "kept", Time: "2025-03-01T12:00:01Z"})

		assert.Equal(t, "kept", readNewOrder(t, second).Name)
	})

	t.Run("heartbeat", func(t *testing.T) {
		stack := newTestStack(t, 4)
		conn := dialWebSocket(t, stack)

		response := call(t, conn, `{"id":1,"method":"heartbeat"}`)

		require.Nil(t, response.Error)
		var result handler.HeartbeatResponse
		require.NoError(t, json.Unmarshal(*response.Result, &result))
		assert.WithinDuration(t, time.Now(), result.Timestamp, 5*time.Second)
	})

	t.Run("unknown method", func(t *testing.T) {
		stack := newTestStack(t, 4)
		conn := dialWebSocket(t, stack)

		response := call(t, conn, `{"id":1,"method":"join"}`)

		require.NotNil(t, response.Error)
		assert.Equal(t, "NotFound", string(response.Error.Code))
	})

	t.Run("invalid order params", func(t *testing.T) {
		stack := newTestStack(t, 4)
		conn := dialWebSocket(t, stack)

		response := call(t, conn, `{"id":1,"method":"send-order","params":{"chefId":"alice","order":{"name":"A","time":"noon"}}}`)

		require.NotNil(t, response.Error)
		assert.Equal(t, "InvalidArgument", string(response.Error.Code))
	})

	t.Run("missing params", func(t *testing.T) {
		stack := newTestStack(t, 4)
		conn := dialWebSocket(t, stack)

		response := call(t, conn, `{"id":1,"method":"register-chef"}`)

		require.NotNil(t, response.Error)
		assert.Equal(t, "InvalidArgument", string(response.Error.Code))
	})

	t.Run("invalid message closes the connection", func(t *testing.T) {
		stack := newTestStack(t, 4)
		conn := dialWebSocket(t, stack)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("invalid-json")))

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, _, err := conn.ReadMessage()

		assert.True(t, websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData))
	})
}
