package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/kirillkom/legalease/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type repoFake struct {
	doc         *domain.Document
	created     *domain.Document
	createErr   error
	getErr      error
	saveErr     error
	statusErr   error
	failErr     error
	listErr     error
	statusCalls []statusCall
	saved       domain.SummaryResult
	savedText   string
	savedID     string
	page        domain.Page[domain.Document]
	listArgs    [2]int
	all         []domain.Document
}

func (f *repoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *repoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.doc == nil {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New(id))
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failErr != nil {
		return f.failErr
	}
	return f.statusErr
}

func (f *repoFake) SaveAnalysis(_ context.Context, id, text string, result domain.SummaryResult, _ time.Duration) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedID = id
	f.savedText = text
	f.saved = result
	return nil
}

func (f *repoFake) List(_ context.Context, page, perPage int) (domain.Page[domain.Document], error) {
	f.listArgs = [2]int{page, perPage}
	if f.listErr != nil {
		return domain.Page[domain.Document]{}, f.listErr
	}
	return f.page, nil
}

func (f *repoFake) ListAll(context.Context) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.all, nil
}

type logsFake struct {
	mu      sync.Mutex
	entries []domain.ProcessingLog
	err     error
}

func (f *logsFake) AppendLog(_ context.Context, entry domain.ProcessingLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return f.err
}

func (f *logsFake) actions() []string {
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, string(e.Action)+"/"+string(e.Status))
	}
	return out
}

type extractorFake struct {
	text    string
	err     error
	gotKind domain.DocumentKind
	gotBody []byte
}

func (f *extractorFake) Extract(_ context.Context, source []byte, kind domain.DocumentKind) (string, error) {
	f.gotKind = kind
	f.gotBody = source
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type summarizerFake struct {
	result domain.SummaryResult
	err    error
	calls  int
}

func (f *summarizerFake) Summarize(string) (domain.SummaryResult, error) {
	f.calls++
	if f.err != nil {
		return domain.SummaryResult{}, f.err
	}
	return f.result, nil
}

type cacheFake struct {
	items map[string]domain.SummaryResult
}

func (f *cacheFake) Get(text string) (domain.SummaryResult, bool) {
	r, ok := f.items[text]
	return r, ok
}

func (f *cacheFake) Set(text string, result domain.SummaryResult) {
	if f.items == nil {
		f.items = map[string]domain.SummaryResult{}
	}
	f.items[text] = result
}

type observerFake struct {
	tiers    []domain.SummaryTier
	clauses  []int
	failures []string
}

func (f *observerFake) ObserveAnalysis(tier domain.SummaryTier, clauses int, _ time.Duration) {
	f.tiers = append(f.tiers, tier)
	f.clauses = append(f.clauses, clauses)
}

func (f *observerFake) ObserveFailure(stage string) {
	f.failures = append(f.failures, stage)
}

type storageFake struct {
	savedKey  string
	savedBody string
	saveErr   error
	openBody  string
	openErr   error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewBufferString(f.openBody)), nil
}

type queueFake struct {
	documentID string
	err        error
}

func (f *queueFake) PublishAnalysisRequested(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.documentID = documentID
	return nil
}

func (f *queueFake) SubscribeAnalysisRequested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func sampleResult() domain.SummaryResult {
	return domain.SummaryResult{
		Summary: "This Lease Agreement contains the following key provisions: rent is due monthly.",
		Tier:    domain.TierHeuristic,
		KeyClauses: []domain.DetectedClause{
			{Type: "Payment Terms", Content: "Rent is due monthly.", Explanation: "Specifies payment obligations."},
		},
	}
}
