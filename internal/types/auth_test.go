package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr bool
	}{
		{"valid", CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"}, false},
		{"with phone", CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "password123", Phone: "555-0100"}, false},
		{"missing name", CreateUserRequest{Email: "ada@example.com", Password: "password123"}, true},
		{"bad email", CreateUserRequest{Name: "Ada", Email: "ada", Password: "password123"}, true},
		{"short password", CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "short"}, true},
		{"password over bcrypt limit", CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: strings.Repeat("a", 73)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginAndPasswordRequests_Validate(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "ada@example.com", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "ada@example.com"}).Validate())
	assert.NoError(t, (&UpdatePasswordRequest{CurrentPassword: "old", NewPassword: "newpassword"}).Validate())
	assert.Error(t, (&UpdatePasswordRequest{CurrentPassword: "old", NewPassword: "new"}).Validate())
}

func TestUser_JSONOmitsHash(t *testing.T) {
	data, err := json.Marshal(User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password_hash")
	assert.Contains(t, string(data), `"password_set":false`)
}

func TestNewUpdateResumeRequest(t *testing.T) {
	doc := document.New()
	doc.Summary = "hello"
	title := "CV"
	status := store.StatusCompleted

	req, err := NewUpdateResumeRequest(store.Update{Title: &title, Status: &status, Content: &doc})
	require.NoError(t, err)
	assert.Equal(t, &title, req.Title)
	assert.Equal(t, &status, req.Status)
	assert.Nil(t, req.Template)

	var decoded document.Document
	require.NoError(t, json.Unmarshal(req.Content, &decoded))
	assert.Equal(t, "hello", decoded.Summary)

	empty, err := NewUpdateResumeRequest(store.Update{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, empty.Content)

	data, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"CV"}`, string(data))
}
