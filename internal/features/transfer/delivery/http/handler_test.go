package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "channel-escrow-backend/internal/common/errors"
	"channel-escrow-backend/internal/common/middleware"
	"channel-escrow-backend/internal/features/transfer/models"
)

const testSecret = "test-secret"

type fakeTransferService struct {
	joinResult models.JoinResult
	joinErr    error

	classification models.Classification
	checkErr       error

	transferResult *models.TransferResult
	transferErr    error
}

func (f *fakeTransferService) JoinChannel(ctx context.Context, channelUsername string) (models.JoinResult, error) {
	return f.joinResult, f.joinErr
}

func (f *fakeTransferService) CheckOwnership(ctx context.Context, channelUsername string) (models.Classification, error) {
	return f.classification, f.checkErr
}

func (f *fakeTransferService) Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error) {
	return f.transferResult, f.transferErr
}

func setupRouter(svc *fakeTransferService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewTransferHandler(svc).RegisterRoutes(router, testSecret)
	return router
}

func doJSON(router *gin.Engine, method, path, secret string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(middleware.SecretHeader, secret)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthNeedsNoSecret(t *testing.T) {
	router := setupRouter(&fakeTransferService{})

	w := doJSON(router, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestAPIRejectsBadSecret(t *testing.T) {
	router := setupRouter(&fakeTransferService{})

	for _, secret := range []string{"", "wrong"} {
		w := doJSON(router, http.MethodPost, "/api/join-channel", secret, models.JoinRequest{ChannelUsername: "@shop1"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestJoinChannelMissingField(t *testing.T) {
	router := setupRouter(&fakeTransferService{})

	w := doJSON(router, http.MethodPost, "/api/join-channel", testSecret, map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "channelUsername")
}

func TestJoinChannelSuccess(t *testing.T) {
	router := setupRouter(&fakeTransferService{
		joinResult: models.JoinResult{Joined: true, AlreadyMember: false},
	})

	w := doJSON(router, http.MethodPost, "/api/join-channel", testSecret, models.JoinRequest{ChannelUsername: "@shop1"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["joined"])
	assert.Equal(t, false, body["alreadyMember"])
}

func TestJoinChannelFailure(t *testing.T) {
	router := setupRouter(&fakeTransferService{
		joinErr: apperrors.NewTelegramAPIError("join channel", assert.AnError),
	})

	w := doJSON(router, http.MethodPost, "/api/join-channel", testSecret, models.JoinRequest{ChannelUsername: "@shop1"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, decode(t, w)["error"])
}

func TestCheckOwnershipMember(t *testing.T) {
	router := setupRouter(&fakeTransferService{
		classification: models.Classification{
			IsOwner:         false,
			CurrentRole:     models.RoleMember,
			ParticipantType: "channelParticipant",
			ChannelID:       777,
			ChannelTitle:    "Shop One",
		},
	})

	w := doJSON(router, http.MethodPost, "/api/check-ownership", testSecret, models.CheckOwnershipRequest{ChannelUsername: "@shop1"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["isOwner"])
	assert.Equal(t, "member", body["currentRole"])
	assert.Equal(t, "channelParticipant", body["participantType"])
	assert.Equal(t, float64(777), body["channelId"])
	assert.Equal(t, "Shop One", body["channelTitle"])
}

func TestCheckOwnershipFailureShape(t *testing.T) {
	router := setupRouter(&fakeTransferService{
		checkErr: apperrors.NewConnectionError("session handshake failed", assert.AnError),
	})

	w := doJSON(router, http.MethodPost, "/api/check-ownership", testSecret, models.CheckOwnershipRequest{ChannelUsername: "@shop1"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["isOwner"])
	assert.Contains(t, body["currentRole"], "error: ")
}

func TestTransferOwnershipSuccess(t *testing.T) {
	router := setupRouter(&fakeTransferService{
		transferResult: &models.TransferResult{
			JobID: "job-1",
			Steps: models.Steps{
				Joined:               true,
				AdminsRemoved:        2,
				OwnershipTransferred: true,
				EscrowLeft:           true,
			},
		},
	})

	w := doJSON(router, http.MethodPost, "/api/transfer-ownership", testSecret, models.TransferRequest{
		JobID:           "job-1",
		ChannelUsername: "@shop1",
		BuyerUsername:   "buyer_one",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["transferComplete"])
	assert.Equal(t, "job-1", body["jobId"])

	steps, ok := body["steps"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, steps["joined"])
	assert.Equal(t, float64(2), steps["adminsRemoved"])
	assert.Equal(t, true, steps["ownershipTransferred"])
	assert.Equal(t, true, steps["escrowLeft"])
}

func TestTransferOwnershipPrecondition(t *testing.T) {
	router := setupRouter(&fakeTransferService{
		transferErr: apperrors.NewPreconditionError("Escrow account is not the channel creator").
			WithDetail("currentRole", "member").
			WithDetail("instruction", "The seller must transfer channel ownership to the escrow account first"),
	})

	w := doJSON(router, http.MethodPost, "/api/transfer-ownership", testSecret, models.TransferRequest{
		JobID:           "job-1",
		ChannelUsername: "@shop1",
		BuyerUsername:   "buyer_one",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Transfer not ready", body["error"])
	assert.NotEmpty(t, body["instruction"])

	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "member", details["currentRole"])
}

func TestTransferOwnershipFailureCarriesStack(t *testing.T) {
	router := setupRouter(&fakeTransferService{
		transferErr: apperrors.NewAuthProofError("password proof rejected", assert.AnError),
	})

	w := doJSON(router, http.MethodPost, "/api/transfer-ownership", testSecret, models.TransferRequest{
		JobID:           "job-1",
		ChannelUsername: "@shop1",
		BuyerUsername:   "buyer_one",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Contains(t, body["error"], "password proof rejected")
	assert.Contains(t, body, "stack")
}
