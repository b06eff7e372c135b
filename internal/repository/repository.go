// Package repository holds the gorm-backed persistence for recipes and the
// ingredient and tag dictionaries.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern lowercases value and escapes LIKE wildcards in it
func likePattern(prefix, value, suffix string) string {
	return prefix + likeEscaper.Replace(strings.ToLower(value)) + suffix
}
