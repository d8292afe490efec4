package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/goevery/ordercast/internal/menu"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

func renderMenu(out io.Writer, snapshot menu.Snapshot) error {
	if len(snapshot.SavedRecipes) == 0 && len(snapshot.Restaurants) == 0 {
		_, err := fmt.Fprintln(out, "The menu is empty")
		return err
	}

	if len(snapshot.SavedRecipes) > 0 {
		renderRecipes(out, snapshot.SavedRecipes)
	}

	if len(snapshot.Restaurants) > 0 {
		renderRestaurants(out, snapshot.Restaurants)
	}

	return nil
}

func renderRecipes(out io.Writer, recipes []menu.Recommendation) {
	byCategory := lo.GroupBy(recipes, func(recipe menu.Recommendation) menu.Category {
		if lo.Contains(menu.Categories, recipe.Category) {
			return recipe.Category
		}

		return menu.CategoryOther
	})

	table := newTable(out)
	table.SetHeader([]string{"Category", "Dish", "Difficulty", "Prep time", "Calories"})

	for _, category := range menu.Categories {
		for _, recipe := range byCategory[category] {
			table.Append([]string{
				string(category),
				recipe.Name,
				recipe.Difficulty,
				recipe.PrepTime,
				recipe.Calories,
			})
		}
	}

	table.Render()
}

func renderRestaurants(out io.Writer, restaurants []menu.Restaurant) {
	table := newTable(out)
	table.SetHeader([]string{"Restaurant", "Cuisine", "Status", "Rating", "Avg price"})

	for _, restaurant := range restaurants {
		rating := ""
		if restaurant.OverallRating != nil {
			rating = strconv.FormatFloat(*restaurant.OverallRating, 'f', 1, 64)
		}

		table.Append([]string{
			restaurant.Name,
			restaurant.Cuisine,
			string(restaurant.Status),
			rating,
			strconv.FormatFloat(restaurant.AvgPrice, 'f', 0, 64),
		})
	}

	table.Render()
}

func newTable(out io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	return table
}
