package models

import (
	"time"
)

const (
	RecipeNameMaxLength     = 256
	IngredientNameMaxLength = 128
	UnitMaxLength           = 64
	TagMaxLength            = 32
	ShortLinkLength         = 5

	MinAmount = 1
	MaxAmount = 32767
)

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:128;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:32;uniqueIndex;not null" json:"slug"`
}

type Recipe struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	AuthorID    uint      `gorm:"not null;index"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string    `gorm:"size:256;not null"`
	Image       string    `gorm:"size:512;not null"`
	Text        string    `gorm:"type:text;not null"`
	CookingTime int       `gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1"`
	PublishedAt time.Time `gorm:"not null;index"`
	// ShortLink is assigned once on creation and never changes
	ShortLink   string             `gorm:"size:5;uniqueIndex;default:null"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredient carries the amount of an ingredient in a recipe.
type RecipeIngredient struct {
	ID           uint       `gorm:"primarykey"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:CASCADE"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredient_amount,amount >= 1"`
}
