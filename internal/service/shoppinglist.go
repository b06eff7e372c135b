package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// CartItem is one ingredient row of a recipe in a shopping cart
type CartItem struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListLine is an aggregated ingredient total
type ShoppingListLine struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Total           int64
}

// AggregateShoppingList sums amounts per ingredient and orders the result by
// name, then unit, then id
func AggregateShoppingList(items []CartItem) []ShoppingListLine {
	index := make(map[uint]int, len(items))
	lines := make([]ShoppingListLine, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.IngredientID]; ok {
			lines[i].Total += int64(item.Amount)
			continue
		}
		index[item.IngredientID] = len(lines)
		lines = append(lines, ShoppingListLine{
			IngredientID:    item.IngredientID,
			Name:            item.Name,
			MeasurementUnit: item.MeasurementUnit,
			Total:           int64(item.Amount),
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.MeasurementUnit != b.MeasurementUnit {
			return a.MeasurementUnit < b.MeasurementUnit
		}
		return a.IngredientID < b.IngredientID
	})
	return lines
}

// FormatShoppingList renders one "<name> (<unit>) - <total>" line per entry
func FormatShoppingList(lines []ShoppingListLine) string {
	var b strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&b, "%s (%s) - %d\n", line.Name, line.MeasurementUnit, line.Total)
	}
	return b.String()
}

// ShoppingListService builds the downloadable list for a user's cart
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// CartItems loads every ingredient row of the recipes in the user's cart
func (s *ShoppingListService) CartItems(ctx context.Context, userID uint) ([]CartItem, error) {
	var items []CartItem
	err := s.db.WithContext(ctx).
		Model(&models.ShoppingCart{}).
		Select("ingredients.id AS ingredient_id, ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	return items, nil
}

// Build returns the rendered shopping list. An empty cart gives an empty string.
func (s *ShoppingListService) Build(ctx context.Context, userID uint) (string, error) {
	items, err := s.CartItems(ctx, userID)
	if err != nil {
		return "", err
	}
	return FormatShoppingList(AggregateShoppingList(items)), nil
}
