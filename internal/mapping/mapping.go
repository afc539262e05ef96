// Package mapping loads the username mapping file and resolves GitHub
// usernames to Chatwork accounts.
//
// The mapping file is a JSON object keyed by GitHub username:
//
//	{
//	  "alice": { "room_id": "123", "account_id": "456" },
//	}
//
// It is parsed as JSON5, so hand-maintained files may carry comments and
// trailing commas.
package mapping

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/titanous/json5"
)

var validate = validator.New()

// Account is one Chatwork identity bound to a GitHub username.
type Account struct {
	RoomID    string `json:"room_id" validate:"required"`
	AccountID string `json:"account_id" validate:"required"`
}

// File is the loaded mapping table, read-only for the lifetime of a run.
type File map[string]Account

// Parse decodes and validates a mapping file. Every entry must carry
// both a room_id and an account_id.
func Parse(data []byte) (File, error) {
	var f File
	if err := json5.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse mapping file: %w", err)
	}

	for username, account := range f {
		if err := validate.Struct(account); err != nil {
			return nil, fmt.Errorf("mapping entry %q: %w", username, err)
		}
	}
	return f, nil
}

// Resolved is one resolution slot: the username looked up and, when the
// mapping knows it, the bound account. Account is nil for unmapped
// usernames; callers must filter (see Accounts) before dereferencing.
type Resolved struct {
	Username string
	Account  *Account
}

// Resolve looks up each username in the mapping. The result has one slot
// per input username, in input order, present or absent.
func Resolve(usernames []string, m File) []Resolved {
	resolved := make([]Resolved, len(usernames))
	for i, username := range usernames {
		resolved[i] = Resolved{Username: username}
		if account, ok := m[username]; ok {
			resolved[i].Account = &account
		}
	}
	return resolved
}

// Accounts filters a resolution down to the slots that found an account.
func Accounts(resolved []Resolved) []Resolved {
	present := make([]Resolved, 0, len(resolved))
	for _, r := range resolved {
		if r.Account != nil {
			present = append(present, r)
		}
	}
	return present
}
