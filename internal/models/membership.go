package models

import (
	"time"
)

// Favorite marks a recipe as favorited by a user
type Favorite struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint   `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
}

// ShoppingCart holds a recipe in a user's cart
type ShoppingCart struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint   `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
}

// Subscription links a follower (UserID) to an author
type Subscription struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint   `gorm:"not null;uniqueIndex:idx_subscription_pair;check:chk_no_self_subscription,user_id <> author_id"`
	AuthorID  uint   `gorm:"not null;uniqueIndex:idx_subscription_pair;index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Author    User   `gorm:"constraint:OnDelete:CASCADE"`
}

// AllModels lists every table for auto-migration
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCart{},
		&Subscription{},
	}
}
