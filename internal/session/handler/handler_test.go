package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"teamsort/internal/assessment"
	"teamsort/internal/domain"
	"teamsort/internal/session/handler/mocks"
	"teamsort/internal/session/models"
	dErrors "teamsort/pkg/domain-errors"
	"teamsort/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type SessionHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *SessionHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestSessionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SessionHandlerSuite))
}

// denyAll stands in for the operator guard.
func denyAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func newTestRouter(t *testing.T, guard func(http.Handler) http.Handler) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger, guard)
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func (s *SessionHandlerSuite) TestHandleView() {
	r, svc := newTestRouter(s.T(), nil)
	svc.EXPECT().View().Return(models.View{SessionID: "abc", Step: models.StepWelcome})

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodGet, "/session", nil))
	s.Equal(http.StatusOK, rr.Code)
	view := testutil.UnmarshalResponse[models.View](s.T(), rr)
	s.Equal(models.StepWelcome, view.Step)
	s.Equal("abc", view.SessionID)
}

func (s *SessionHandlerSuite) TestHandleSubmitIntake() {
	s.Run("normalizes and forwards the form", func() {
		r, svc := newTestRouter(s.T(), nil)
		svc.EXPECT().SubmitIntake(gomock.Any(), models.IntakeInput{
			Name:              "Ana",
			PrimaryCategory:   "it",
			SecondaryCategory: "media",
		}).Return(models.View{Step: models.StepAssessment}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/session/intake", IntakeRequest{
			Name:              "  Ana ",
			PrimaryCategory:   "IT",
			SecondaryCategory: " media",
		})
		rr := testutil.DoRequest(r, req)
		s.Equal(http.StatusOK, rr.Code)
		s.Equal(models.StepAssessment, testutil.UnmarshalResponse[models.View](s.T(), rr).Step)
	})

	s.Run("session validation error maps to 400", func() {
		r, svc := newTestRouter(s.T(), nil)
		svc.EXPECT().SubmitIntake(gomock.Any(), gomock.Any()).
			Return(models.View{Step: models.StepIntake}, dErrors.New(dErrors.CodeValidation, "name is required"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/session/intake", IntakeRequest{PrimaryCategory: "it"})
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("malformed json never reaches the session", func() {
		r, _ := newTestRouter(s.T(), nil)
		rr := testutil.DoRequest(r, testutil.NewRawRequest(http.MethodPost, "/session/intake", `{"name":`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("unknown fields are rejected", func() {
		r, _ := newTestRouter(s.T(), nil)
		rr := testutil.DoRequest(r, testutil.NewRawRequest(http.MethodPost, "/session/intake", `{"name":"A","age":3}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *SessionHandlerSuite) TestHandleSubmitAnswer() {
	s.Run("valid weight", func() {
		r, svc := newTestRouter(s.T(), nil)
		svc.EXPECT().SubmitAnswer(gomock.Any(), 4).Return(models.View{Step: models.StepAssessment}, nil)

		rr := testutil.DoRequest(r, testutil.NewRawRequest(http.MethodPost, "/session/answers", `{"weight":4}`))
		s.Equal(http.StatusOK, rr.Code)
	})

	for _, body := range []string{`{"weight":0}`, `{"weight":6}`} {
		s.Run("out of range "+body, func() {
			r, _ := newTestRouter(s.T(), nil)
			rr := testutil.DoRequest(r, testutil.NewRawRequest(http.MethodPost, "/session/answers", body))
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
		})
	}

	s.Run("missing weight", func() {
		r, _ := newTestRouter(s.T(), nil)
		rr := testutil.DoRequest(r, testutil.NewRawRequest(http.MethodPost, "/session/answers", `{}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})
}

func (s *SessionHandlerSuite) TestNavigationIntents() {
	cases := []struct {
		path   string
		expect func(svc *mocks.MockService) *gomock.Call
	}{
		{"/session/intake/begin", func(svc *mocks.MockService) *gomock.Call { return svc.EXPECT().BeginIntake(gomock.Any()) }},
		{"/session/intake/back", func(svc *mocks.MockService) *gomock.Call { return svc.EXPECT().Back(gomock.Any()) }},
		{"/session/welcome", func(svc *mocks.MockService) *gomock.Call { return svc.EXPECT().Back(gomock.Any()) }},
		{"/session/abandon", func(svc *mocks.MockService) *gomock.Call { return svc.EXPECT().Abandon(gomock.Any()) }},
		{"/session/dashboard", func(svc *mocks.MockService) *gomock.Call { return svc.EXPECT().OpenDashboard(gomock.Any()) }},
		{"/session/results", func(svc *mocks.MockService) *gomock.Call { return svc.EXPECT().ShowResults(gomock.Any()) }},
	}
	for _, tc := range cases {
		s.Run(tc.path, func() {
			r, svc := newTestRouter(s.T(), nil)
			tc.expect(svc).Return(models.View{Step: models.StepWelcome}, nil)
			rr := testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodPost, tc.path, nil))
			s.Equal(http.StatusOK, rr.Code)
		})
	}
}

func (s *SessionHandlerSuite) TestIllegalTransitionMapsToConflict() {
	r, svc := newTestRouter(s.T(), nil)
	svc.EXPECT().ShowResults(gomock.Any()).
		Return(models.View{Step: models.StepWelcome}, dErrors.New(dErrors.CodeConflict, "show_results is not allowed from welcome"))

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodPost, "/session/results", nil))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
}

func (s *SessionHandlerSuite) TestOperatorRoutes() {
	s.Run("guard blocks dashboard and finalize", func() {
		r, _ := newTestRouter(s.T(), denyAll)
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodGet, "/session/dashboard", nil))
		s.Equal(http.StatusUnauthorized, rr.Code)
		rr = testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodPost, "/session/finalize", nil))
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("guard does not block respondent routes", func() {
		r, svc := newTestRouter(s.T(), denyAll)
		svc.EXPECT().OpenDashboard(gomock.Any()).Return(models.View{Step: models.StepDashboard}, nil)
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodPost, "/session/dashboard", nil))
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("dashboard stats", func() {
		r, svc := newTestRouter(s.T(), nil)
		svc.EXPECT().Dashboard().Return(models.DashboardStats{
			RosterSize:        2,
			GroupCount:        4,
			TraitDistribution: domain.TraitCounts{domain.TraitD: 2},
		})
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodGet, "/session/dashboard", nil))
		s.Equal(http.StatusOK, rr.Code)
		s.JSONEq(`{"D":2,"I":0,"S":0,"C":0}`, string(mustField(s, rr.Body.Bytes(), "trait_distribution")))
	})

	s.Run("finalize store failure hides the cause", func() {
		r, svc := newTestRouter(s.T(), nil)
		svc.EXPECT().Finalize(gomock.Any()).Return(models.View{Step: models.StepDashboard},
			dErrors.Wrap(io.ErrUnexpectedEOF, dErrors.CodeInternal, "failed to persist finalized groups"))
		req := testutil.WithOperator(testutil.NewJSONRequest(s.T(), http.MethodPost, "/session/finalize", nil), "facilitator")
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
		s.NotContains(rr.Body.String(), "unexpected EOF")
	})

	s.Run("finalize success", func() {
		r, svc := newTestRouter(s.T(), nil)
		svc.EXPECT().Finalize(gomock.Any()).Return(models.View{Step: models.StepDashboard, Finalized: true}, nil)
		req := testutil.WithOperator(testutil.NewJSONRequest(s.T(), http.MethodPost, "/session/finalize", nil), "facilitator")
		rr := testutil.DoRequest(r, req)
		s.Equal(http.StatusOK, rr.Code)
		s.True(testutil.UnmarshalResponse[models.View](s.T(), rr).Finalized)
	})
}

func (s *SessionHandlerSuite) TestReferenceData() {
	r, svc := newTestRouter(s.T(), nil)
	svc.EXPECT().Bank().Return(assessment.DefaultBank())

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodGet, "/session/questions", nil))
	s.Equal(http.StatusOK, rr.Code)
	questions := testutil.UnmarshalResponse[QuestionsResponse](s.T(), rr)
	s.Equal(20, questions.Total)
	s.Equal(1, questions.MinWeight)
	s.Equal(5, questions.MaxWeight)
	s.NotContains(rr.Body.String(), "axis")

	rr = testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodGet, "/session/categories", nil))
	s.Equal(http.StatusOK, rr.Code)
	categories := testutil.UnmarshalResponse[CategoriesResponse](s.T(), rr)
	s.Len(categories.Categories, len(domain.Categories))
}

func mustField(s *SessionHandlerSuite, body []byte, field string) []byte {
	var raw map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(body, &raw))
	return raw[field]
}
