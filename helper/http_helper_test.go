package helper

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/go-playground/validator.v9"
)

func TestUnderscore(t *testing.T) {
	assert.Equal(t, "username", Underscore("Username"))
	assert.Equal(t, "avatar_url", Underscore("AvatarURL"))
	assert.Equal(t, "ai_tool", Underscore("AITool"))
	assert.Equal(t, "bio", Underscore("Bio"))
}

func TestSendValidationErrorGroupsByField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHTTPHelper()

	type profileForm struct {
		Username string `validate:"omitempty,min=3,max=50"`
		Bio      string `validate:"omitempty,max=5"`
	}

	err := h.Validate.Struct(profileForm{Username: "ab", Bio: "too long"})
	require.Error(t, err)
	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/profile", nil)

	require.NoError(t, h.SendValidationError(c, verrs))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Code        int                 `json:"code"`
		CodeType    string              `json:"code_type"`
		CodeMessage map[string][]string `json:"code_message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 422, body.Code)
	assert.Equal(t, "validationError", body.CodeType)
	require.Len(t, body.CodeMessage["username"], 1)
	assert.Contains(t, body.CodeMessage["username"][0], "at least")
	require.Len(t, body.CodeMessage["bio"], 1)
	assert.Contains(t, body.CodeMessage["bio"][0], "maximum")
}
