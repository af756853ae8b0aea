package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builderhome/backend/internal/models"
	"github.com/builderhome/backend/internal/services"
)

func TestSignupHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockSignuper(ctrl)
	mockValidator := NewMockSignupChecker(ctrl)
	handler := NewSignupHandler(mockSvc, mockValidator)

	validBody := `{"username":"gary","email":"gary@example.com","role":"user","password":"longenough1","passwordConfirmation":"longenough1"}`

	tests := []struct {
		name           string
		body           string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "successful signup",
			body: validBody,
			mockSetup: func() {
				mockValidator.EXPECT().
					Validate(gomock.Any(), services.SignupInput{
						Username:             "gary",
						Email:                "gary@example.com",
						Role:                 "user",
						Password:             "longenough1",
						PasswordConfirmation: "longenough1",
					}).
					Return(nil)
				mockSvc.EXPECT().
					Signup(gomock.Any(), "gary", "gary@example.com", "longenough1", "user").
					Return("jwt-token", &models.UserDB{ID: 1, Username: "gary", Email: "gary@example.com", Role: "user"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Successfully Created A User",
		},
		{
			name: "validation failure",
			body: validBody,
			mockSetup: func() {
				mockValidator.EXPECT().
					Validate(gomock.Any(), gomock.Any()).
					Return(&services.ValidationError{Field: "password", Message: "password must be at least 8 characters"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "password must be at least 8 characters",
		},
		{
			name: "store failure",
			body: validBody,
			mockSetup: func() {
				mockValidator.EXPECT().
					Validate(gomock.Any(), gomock.Any()).
					Return(nil)
				mockSvc.EXPECT().
					Signup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "An error occurred while processing your request",
		},
		{
			name:           "invalid request body",
			body:           `{not json`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedMsg, resp["message"])

			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, "Success", resp["status"])
				assert.Equal(t, "jwt-token", resp["token"])
			}
		})
	}
}

func TestSignupHandler_ResponseOmitsPasswordFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockSignuper(ctrl)
	mockValidator := NewMockSignupChecker(ctrl)
	handler := NewSignupHandler(mockSvc, mockValidator)

	mockValidator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	mockSvc.EXPECT().
		Signup(gomock.Any(), "gary", "gary@example.com", "longenough1", "user").
		Return("jwt-token", &models.UserDB{
			ID:           1,
			Username:     "gary",
			Email:        "gary@example.com",
			Role:         "user",
			PasswordHash: "$2a$12$secret",
		}, nil)

	body := `{"username":"gary","email":"gary@example.com","role":"user","password":"longenough1","passwordConfirmation":"longenough1"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	handler(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$12$secret")
}
