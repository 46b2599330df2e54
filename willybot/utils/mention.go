package utils

import (
	"strconv"
	"strings"

	"github.com/willyosu/willybot/willybot/database"
)

// minIDLength separates platform ids from numeric looking names. Ids are at
// least 17 digits long, names at most 16 characters.
const minIDLength = 17

var mentionStripper = strings.NewReplacer("<", "", "@", "", "!", "", ">", "")

// ConvertMention resolves a raw user reference. Mention decoration is
// stripped; a purely numeric token of 17 or more digits is an id, anything
// else is a name. It never fails.
func ConvertMention(raw string) database.Identifier {
	token := mentionStripper.Replace(strings.TrimSpace(raw))
	if len(token) >= minIDLength && isDigits(token) {
		if id, err := strconv.ParseInt(token, 10, 64); err == nil {
			return database.ByID(id)
		}
	}
	return database.ByName(token)
}

// ParseIdentifier resolves a badge or quest reference: any purely numeric
// token is an id.
func ParseIdentifier(raw string) database.Identifier {
	token := strings.TrimSpace(raw)
	if isDigits(token) {
		if id, err := strconv.ParseInt(token, 10, 64); err == nil {
			return database.ByID(id)
		}
	}
	return database.ByName(token)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
