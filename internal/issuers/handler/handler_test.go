package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"skillpass/internal/issuers"
	id "skillpass/pkg/domain"
	adminmw "skillpass/pkg/platform/middleware/admin"
)

const adminToken = "secret-token"

var (
	ownerAddr  = id.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	issuerAddr = id.Address("0x2222222222222222222222222222222222222222")
)

type HandlerSuite struct {
	suite.Suite
	registry *issuers.Registry
	router   http.Handler
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.registry = issuers.NewRegistry(ownerAddr)
	h := New(s.registry, logger, nil)

	r := chi.NewRouter()
	h.Register(r)
	r.Group(func(admin chi.Router) {
		admin.Use(adminmw.RequireAdminToken(adminToken, logger))
		h.RegisterAdmin(admin)
	})
	s.router = r
}

func (s *HandlerSuite) approve(issuer string, approved bool, token string) *httptest.ResponseRecorder {
	body, err := json.Marshal(SetIssuerRequest{Issuer: issuer, Approved: approved})
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/issuer/approve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Admin-Token", token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) check(address string) (int, CheckIssuerResponse) {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/issuer/check/"+address, nil))

	var resp CheckIssuerResponse
	if rec.Code == http.StatusOK {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func (s *HandlerSuite) TestAdminTokenRequired() {
	for _, token := range []string{"", "wrong-token"} {
		rec := s.approve(issuerAddr.String(), true, token)
		s.Equal(http.StatusUnauthorized, rec.Code, "token %q", token)
	}
	s.False(s.registry.IsApproved(context.Background(), issuerAddr))
}

func (s *HandlerSuite) TestApproveThenCheck() {
	rec := s.approve(issuerAddr.String(), true, adminToken)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp SetIssuerResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(issuerAddr.String(), resp.Issuer)
	s.True(resp.IsApproved)

	code, check := s.check(issuerAddr.String())
	s.Equal(http.StatusOK, code)
	s.True(check.IsApproved)
	s.Equal(issuerAddr.String(), check.Address)
}

func (s *HandlerSuite) TestRemoveApproval() {
	s.Require().Equal(http.StatusOK, s.approve(issuerAddr.String(), true, adminToken).Code)

	rec := s.approve(issuerAddr.String(), false, adminToken)
	s.Require().Equal(http.StatusOK, rec.Code)

	code, check := s.check(issuerAddr.String())
	s.Equal(http.StatusOK, code)
	s.False(check.IsApproved)
}

func (s *HandlerSuite) TestCheckUnknownAddressNever404s() {
	code, check := s.check("0x3333333333333333333333333333333333333333")
	s.Equal(http.StatusOK, code)
	s.False(check.IsApproved)
}

func (s *HandlerSuite) TestCheckOwnerBootstrapApproved() {
	code, check := s.check(ownerAddr.String())
	s.Equal(http.StatusOK, code)
	s.True(check.IsApproved)
}

func (s *HandlerSuite) TestCheckBadAddress() {
	code, _ := s.check("nope")
	s.Equal(http.StatusBadRequest, code)
}

func (s *HandlerSuite) TestApproveBadAddress() {
	rec := s.approve("nope", true, adminToken)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestApproveMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/issuer/approve", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
