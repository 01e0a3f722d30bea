package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memberServiceStub struct {
	services.MemberService
	rejected  []string
	lastQuery dto.MemberListQuery
}

func (s *memberServiceStub) Reject(_ context.Context, _ auth.Identity, id int64, reason string) (*dto.MemberResponse, error) {
	s.rejected = append(s.rejected, reason)
	return &dto.MemberResponse{ID: id}, nil
}

func (s *memberServiceStub) ListMembers(_ context.Context, _ auth.Identity, q dto.MemberListQuery) (*dto.MemberListResponse, error) {
	s.lastQuery = q
	return &dto.MemberListResponse{}, nil
}

func newMemberRouter(stub *memberServiceStub) *gin.Engine {
	ctrl := NewMemberController(stub)
	r := gin.New()
	r.POST("/members/:id/reject", ctrl.Reject)
	r.GET("/members", ctrl.ListMembers)
	return r
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestMemberController_RejectNeedsTenCharacters(t *testing.T) {
	stub := &memberServiceStub{}
	r := newMemberRouter(stub)

	for _, body := range []string{`{}`, `{"reason":"   short   "}`} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/members/4/reject", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "VAL_001", errorCode(t, w))
	}
	assert.Empty(t, stub.rejected)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/members/4/reject",
		strings.NewReader(`{"reason":"incomplete documents"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"incomplete documents"}, stub.rejected)
}

func TestMemberController_RejectBadID(t *testing.T) {
	w := httptest.NewRecorder()
	newMemberRouter(&memberServiceStub{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/members/abc/reject",
		strings.NewReader(`{"reason":"incomplete documents"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMemberController_ListMembersDecodesQuery(t *testing.T) {
	stub := &memberServiceStub{}
	r := newMemberRouter(stub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members?status=PENDING&adherent=true&q=mart&page=2&utm=x", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PENDING", stub.lastQuery.Status)
	require.NotNil(t, stub.lastQuery.Adherent)
	assert.True(t, *stub.lastQuery.Adherent)
	assert.Equal(t, "mart", stub.lastQuery.Search)
	assert.Equal(t, 2, stub.lastQuery.Page)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/members?page=two", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_002", errorCode(t, w))
}
