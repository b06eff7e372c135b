package testhelpers

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pageza/foodgram/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of every user created by CreateUser
const TestPassword = "testpassword123"

// PixelPNG is a 1x1 PNG as a data URL
const PixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var seq atomic.Int64

// CreateUser inserts a user with a unique email and username
func CreateUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := seq.Add(1)
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        fmt.Sprintf("user%d@example.com", n),
		Username:     fmt.Sprintf("user%d", n),
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", n),
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ingredient
}

func CreateTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// RecipeFixture describes a recipe inserted directly, bypassing the service
type RecipeFixture struct {
	Author      *models.User
	Name        string
	Tags        []*models.Tag
	Ingredients map[*models.Ingredient]int
	PublishedAt time.Time
	ShortLink   string
}

// CreateRecipe inserts a recipe with its links
func CreateRecipe(t *testing.T, db *gorm.DB, f RecipeFixture) *models.Recipe {
	t.Helper()
	n := seq.Add(1)
	if f.Name == "" {
		f.Name = fmt.Sprintf("Recipe %d", n)
	}
	if f.PublishedAt.IsZero() {
		f.PublishedAt = time.Now().Add(time.Duration(n) * time.Second)
	}
	if f.ShortLink == "" {
		f.ShortLink = fmt.Sprintf("t%04d", n%10000)
	}

	recipe := &models.Recipe{
		AuthorID:    f.Author.ID,
		Name:        f.Name,
		Image:       "/media/recipes/images/test.png",
		Text:        "Mix and cook.",
		CookingTime: 10,
		PublishedAt: f.PublishedAt,
		ShortLink:   f.ShortLink,
	}
	for _, tag := range f.Tags {
		recipe.Tags = append(recipe.Tags, *tag)
	}
	if err := db.Omit("Author", "Ingredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}

	for ingredient, amount := range f.Ingredients {
		row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredient.ID, Amount: amount}
		if err := db.Omit("Ingredient").Create(&row).Error; err != nil {
			t.Fatalf("failed to create recipe ingredient: %v", err)
		}
	}
	return recipe
}

// AddToCart puts recipe in the user's shopping cart
func AddToCart(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe) {
	t.Helper()
	if err := db.Create(&models.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("failed to add to cart: %v", err)
	}
}

// AddFavorite marks recipe as favorited by user
func AddFavorite(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe) {
	t.Helper()
	if err := db.Create(&models.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("failed to add favorite: %v", err)
	}
}

// Subscribe makes follower follow author
func Subscribe(t *testing.T, db *gorm.DB, follower, author *models.User) {
	t.Helper()
	if err := db.Create(&models.Subscription{UserID: follower.ID, AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
}
