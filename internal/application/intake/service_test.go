package intake

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/careers-intake-api/internal/application/quota"
	"github.com/careers-intake-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockCandidateStore struct{ mock.Mock }

func (m *mockCandidateStore) Insert(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}

type mockQuota struct{ mock.Mock }

func (m *mockQuota) Status(ctx context.Context, email string) (quota.Status, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(quota.Status), args.Error(1)
}

type mockParser struct{ mock.Mock }

func (m *mockParser) Parse(ctx context.Context, data []byte, mimeType string) (string, domain.ParsedResume, error) {
	args := m.Called(ctx, data, mimeType)
	return args.String(0), args.Get(1).(domain.ParsedResume), args.Error(2)
}

type mockScorer struct{ mock.Mock }

func (m *mockScorer) Score(ctx context.Context, fields domain.ParsedResume, text, category string) (int, error) {
	args := m.Called(ctx, fields, text, category)
	return args.Int(0), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyReviewer(c *domain.Candidate, resume []byte, filename string) error {
	return m.Called(c, resume, filename).Error(0)
}

type mockAlerter struct{ mock.Mock }

func (m *mockAlerter) Alert(ctx context.Context, subject, message string) error {
	return m.Called(ctx, subject, message).Error(0)
}

// --- helpers ---

func validSubmission() Submission {
	return Submission{
		FullName:          "Jane Doe",
		Email:             "a@b.com",
		Phone:             "5551234",
		City:              "Pune",
		State:             "MH",
		CollegeName:       "State University",
		JobCategory:       "Software Development",
		Resume:            []byte("resume bytes"),
		ResumeFilename:    "resume.pdf",
		ResumeContentType: "application/pdf",
	}
}

func openQuota() *mockQuota {
	q := &mockQuota{}
	q.On("Status", mock.Anything, mock.Anything).Return(quota.Status{Count: 0, Limit: 3, Remaining: 3}, nil)
	return q
}

func parserReturning(text string) *mockParser {
	p := &mockParser{}
	p.On("Parse", mock.Anything, mock.Anything, mock.Anything).Return(text, domain.ParsedResume{Skills: []string{"go"}}, nil)
	return p
}

func scorerReturning(score int) *mockScorer {
	s := &mockScorer{}
	s.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(score, nil)
	return s
}

// --- validation ---

func TestSubmit_MissingRequiredField(t *testing.T) {
	sub := validSubmission()
	sub.CollegeName = ""

	svc := NewService(ServiceDeps{Quota: openQuota()})
	_, err := svc.Submit(context.Background(), sub)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSubmit_CustomCategoryNeedsRole(t *testing.T) {
	sub := validSubmission()
	sub.JobCategory = "Custom"
	sub.CustomJobRole = "   "

	svc := NewService(ServiceDeps{Quota: openQuota()})
	_, err := svc.Submit(context.Background(), sub)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- quota ---

func TestSubmit_QuotaExhausted(t *testing.T) {
	q := &mockQuota{}
	q.On("Status", mock.Anything, "a@b.com").Return(quota.Status{Count: 3, Limit: 3, Remaining: 0}, nil)
	p := &mockParser{}

	svc := NewService(ServiceDeps{Quota: q, Parser: p})
	_, err := svc.Submit(context.Background(), validSubmission())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrQuotaExceeded))
	var qe *QuotaError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, 3, qe.Status.Limit)
	assert.Equal(t, 3, qe.Status.Count)
	p.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything, mock.Anything)
}

// --- parsing ---

func TestSubmit_ParserFailure_NoRecord(t *testing.T) {
	p := &mockParser{}
	p.On("Parse", mock.Anything, mock.Anything, mock.Anything).
		Return("", domain.ParsedResume{}, errors.New("broken pdf"))
	st := &mockCandidateStore{}

	svc := NewService(ServiceDeps{Quota: openQuota(), Parser: p, Candidates: st})
	_, err := svc.Submit(context.Background(), validSubmission())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCollaborator))
	st.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmit_UnsupportedResumeType_IsBadRequest(t *testing.T) {
	p := &mockParser{}
	p.On("Parse", mock.Anything, mock.Anything, mock.Anything).
		Return("", domain.ParsedResume{}, domain.ErrBadRequest)

	svc := NewService(ServiceDeps{Quota: openQuota(), Parser: p})
	_, err := svc.Submit(context.Background(), validSubmission())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- classification ---

func TestSubmit_ExemptCategoryVariants(t *testing.T) {
	for _, category := range []string{" CUSTOM ", "Other", "custom (user-defined role)", "Custom: Astrologer"} {
		t.Run(category, func(t *testing.T) {
			sc := &mockScorer{}
			nt := &mockNotifier{}
			nt.On("NotifyReviewer", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			st := &mockCandidateStore{}
			st.On("Insert", mock.Anything, mock.Anything).Return(nil)

			sub := validSubmission()
			sub.JobCategory = category
			sub.CustomJobRole = "Astrologer"

			svc := NewService(ServiceDeps{
				Quota: openQuota(), Parser: parserReturning("text"),
				Scorer: sc, Notifier: nt, Candidates: st,
			})
			res, err := svc.Submit(context.Background(), sub)

			require.NoError(t, err)
			assert.True(t, res.Qualified)
			assert.Equal(t, domain.ExemptScore, res.Score)
			assert.Equal(t, domain.ATSStatusSkipped, res.ATSStatus)
			sc.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// --- threshold ---

func TestSubmit_ThresholdBoundary(t *testing.T) {
	cases := []struct {
		score         int
		wantQualified bool
	}{
		{60, true},
		{59, false},
	}
	for _, tc := range cases {
		nt := &mockNotifier{}
		nt.On("NotifyReviewer", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		st := &mockCandidateStore{}
		st.On("Insert", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(ServiceDeps{
			Quota: openQuota(), Parser: parserReturning("text"),
			Scorer: scorerReturning(tc.score), Notifier: nt, Candidates: st,
		})
		res, err := svc.Submit(context.Background(), validSubmission())

		require.NoError(t, err)
		assert.Equal(t, tc.wantQualified, res.Qualified, "score %d", tc.score)
		if tc.wantQualified {
			nt.AssertCalled(t, "NotifyReviewer", mock.Anything, mock.Anything, mock.Anything)
		} else {
			nt.AssertNotCalled(t, "NotifyReviewer", mock.Anything, mock.Anything, mock.Anything)
		}
	}
}

// --- qualified branch ordering ---

func TestSubmit_NotifyFails_NothingPersisted(t *testing.T) {
	nt := &mockNotifier{}
	nt.On("NotifyReviewer", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	st := &mockCandidateStore{}

	svc := NewService(ServiceDeps{
		Quota: openQuota(), Parser: parserReturning("text"),
		Scorer: scorerReturning(80), Notifier: nt, Candidates: st,
	})
	_, err := svc.Submit(context.Background(), validSubmission())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCollaborator))
	st.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmit_NotifySucceeds_RecordPersistedAfter(t *testing.T) {
	var order []string
	nt := &mockNotifier{}
	nt.On("NotifyReviewer", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { order = append(order, "notify") }).
		Return(nil)
	var stored *domain.Candidate
	st := &mockCandidateStore{}
	st.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			order = append(order, "insert")
			stored = args.Get(1).(*domain.Candidate)
		}).
		Return(nil)

	svc := NewService(ServiceDeps{
		Quota: openQuota(), Parser: parserReturning("text"),
		Scorer: scorerReturning(72), Notifier: nt, Candidates: st,
	})
	res, err := svc.Submit(context.Background(), validSubmission())

	require.NoError(t, err)
	assert.Equal(t, []string{"notify", "insert"}, order)
	assert.Equal(t, domain.StatusQualified, stored.Status)
	assert.True(t, stored.NotifiedHR)
	assert.Equal(t, 72, stored.ATSScore)
	assert.Equal(t, strings.ToUpper(stored.CandidateID[:8]), res.ApplicationID)
}

func TestSubmit_PersistFailsAfterNotify_AlertsOps(t *testing.T) {
	nt := &mockNotifier{}
	nt.On("NotifyReviewer", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	st := &mockCandidateStore{}
	st.On("Insert", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))
	al := &mockAlerter{}
	al.On("Alert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{
		Quota: openQuota(), Parser: parserReturning("text"),
		Scorer: scorerReturning(80), Notifier: nt, Candidates: st, Alerter: al,
	})
	_, err := svc.Submit(context.Background(), validSubmission())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCollaborator))
	al.AssertCalled(t, "Alert", mock.Anything, "intake reconciliation needed", mock.Anything)
}

// --- rejected branch ---

func TestSubmit_Rejected_PersistsWithoutNotification(t *testing.T) {
	var stored *domain.Candidate
	st := &mockCandidateStore{}
	st.On("Insert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Candidate) }).
		Return(nil)
	nt := &mockNotifier{}

	svc := NewService(ServiceDeps{
		Quota: openQuota(), Parser: parserReturning("text"),
		Scorer: scorerReturning(40), Notifier: nt, Candidates: st,
	})
	res, err := svc.Submit(context.Background(), validSubmission())

	require.NoError(t, err)
	assert.False(t, res.Qualified)
	assert.Empty(t, res.ApplicationID)
	assert.Equal(t, domain.StatusRejected, stored.Status)
	assert.False(t, stored.NotifiedHR)
	assert.Empty(t, stored.ResumeKey, "no resume retained for rejected candidates")
	nt.AssertNotCalled(t, "NotifyReviewer", mock.Anything, mock.Anything, mock.Anything)
}

// --- end-to-end quota accounting ---

// memStore backs the scenario test with real counting semantics.
type memStore struct {
	mu      sync.Mutex
	records []*domain.Candidate
}

func (m *memStore) Insert(_ context.Context, c *domain.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, c)
	return nil
}

func (m *memStore) CountByEmail(_ context.Context, email string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.records {
		if c.Email == email {
			n++
		}
	}
	return n, nil
}

// Three submissions scoring 40, 70 (mailer fails), 70 (mailer succeeds):
// the failed-notification attempt leaves no record, so the stored count is
// 2 and one more attempt stays available.
func TestSubmit_FailedNotificationDoesNotConsumeQuota(t *testing.T) {
	store := &memStore{}
	q := quota.NewService(store, 3)

	sc := &mockScorer{}
	sc.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(40, nil).Once()
	sc.On("Score", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(70, nil).Twice()

	nt := &mockNotifier{}
	nt.On("NotifyReviewer", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	nt.On("NotifyReviewer", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewService(ServiceDeps{
		Quota: q, Parser: parserReturning("text"),
		Scorer: sc, Notifier: nt, Candidates: store,
	})

	// 40: rejected, persisted.
	res, err := svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.False(t, res.Qualified)

	// 70 with failing mailer: no record.
	_, err = svc.Submit(context.Background(), validSubmission())
	require.Error(t, err)

	// 70 with working mailer: qualified, persisted.
	res, err = svc.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.True(t, res.Qualified)

	count, err := store.CountByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	st, err := q.Status(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Remaining, "the failed-notification attempt must not count")
}
