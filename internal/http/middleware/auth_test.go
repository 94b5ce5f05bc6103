package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/moodjournal-backend/internal/pkg/logger"
	"github.com/yungbote/moodjournal-backend/internal/requestdata"
)

const testSecret = "test-secret"

func testAuthRouter(t *testing.T) (*gin.Engine, *requestdata.RequestData) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	var captured requestdata.RequestData

	r := gin.New()
	r.Use(NewAuthMiddleware(log, testSecret).RequireAuth())
	r.GET("/protected", func(c *gin.Context) {
		if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
			captured = *rd
		}
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func signToken(t *testing.T, secret string, claims JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return signed
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	r, captured := testAuthRouter(t)
	userID := uuid.New()
	sessionID := uuid.New()
	tokenString := signToken(t, testSecret, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		SessionID: sessionID.String(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	if captured.UserID != userID {
		t.Fatalf("user id: want=%s got=%s", userID, captured.UserID)
	}
	if captured.SessionID != sessionID {
		t.Fatalf("session id: want=%s got=%s", sessionID, captured.SessionID)
	}
}

func TestRequireAuthAcceptsQueryToken(t *testing.T) {
	r, captured := testAuthRouter(t)
	userID := uuid.New()
	tokenString := signToken(t, testSecret, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+tokenString, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if captured.UserID != userID {
		t.Fatalf("user id: want=%s got=%s", userID, captured.UserID)
	}
	if captured.SessionID == uuid.Nil {
		t.Fatalf("session id must be assigned when the token carries none")
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r, _ := testAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", rec.Code)
	}
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	r, _ := testAuthRouter(t)
	tokenString := signToken(t, "other-secret", JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", rec.Code)
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	r, _ := testAuthRouter(t)
	tokenString := signToken(t, testSecret, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", rec.Code)
	}
}

func TestRequireAuthRejectsBadSubject(t *testing.T) {
	r, _ := testAuthRouter(t)
	tokenString := signToken(t, testSecret, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: want=403 got=%d", rec.Code)
	}
}
