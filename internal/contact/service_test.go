package contact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biemme2/biemme2-site/internal/store"
	"github.com/biemme2/biemme2-site/internal/testutil"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeVerifier struct {
	err    error
	tokens []string
}

func (v *fakeVerifier) Verify(_ context.Context, token, _ string) error {
	v.tokens = append(v.tokens, token)
	return v.err
}

type staticLocator string

func (l staticLocator) Country(string) string { return string(l) }

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func newService(t *testing.T, mailer Mailer, opts ...Option) *Service {
	t.Helper()
	cfg := Config{Recipient: "info@biemme2.com", SiteURL: "https://biemme2.it", PerHour: 5}
	cfg.From.Address = "noreply@biemme2.com"
	return NewService(cfg, mailer, discardLogger(), opts...)
}

func TestService_SubmitDelivers(t *testing.T) {
	db := testutil.TestDB(t)
	subs := store.NewSubmissions(db)
	mailer := &fakeMailer{}
	now := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	s := newService(t, mailer, WithSubmissions(subs), WithLocator(staticLocator("IT")), WithServiceClock(func() time.Time { return now }))

	f := validForm()
	f.Message = "Vorrei un <b>preventivo</b> per il tetto."
	res, err := s.Submit(context.Background(), f, Meta{IP: "203.0.113.7", UserAgent: chromeUA})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, MsgSuccess, res.Message)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "Nuova richiesta: Ristrutturazioni - Mario Rossi", msg.Subject)
	assert.Equal(t, "BIEMME 2 Website", msg.From.Name)
	assert.Contains(t, msg.Text, "Vorrei un preventivo per il tetto.")

	n, err := subs.CountSince(context.Background(), now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_StoredSubmissionMetadata(t *testing.T) {
	db := testutil.TestDB(t)
	rec := &recordingStore{inner: store.NewSubmissions(db)}
	s := newService(t, &fakeMailer{}, WithSubmissions(rec), WithLocator(staticLocator("IT")))

	_, err := s.Submit(context.Background(), validForm(), Meta{IP: "203.0.113.7", UserAgent: chromeUA})
	require.NoError(t, err)
	require.NotEmpty(t, rec.id)

	sub, err := store.NewSubmissions(db).Get(context.Background(), rec.id)
	require.NoError(t, err)
	assert.Equal(t, "IT", sub.Country)
	assert.Equal(t, "Chrome", sub.Browser)
	assert.Equal(t, "Windows", sub.OS)
	assert.Equal(t, "desktop", sub.Device)
	assert.True(t, sub.Delivered)
}

type recordingStore struct {
	inner *store.Submissions
	id    string
}

func (r *recordingStore) Create(ctx context.Context, sub store.Submission) error {
	r.id = sub.ID
	return r.inner.Create(ctx, sub)
}

func (r *recordingStore) MarkDelivered(ctx context.Context, id string) error {
	return r.inner.MarkDelivered(ctx, id)
}

func TestService_Honeypot(t *testing.T) {
	mailer := &fakeMailer{}
	verifier := &fakeVerifier{err: ErrCaptchaFailed}
	s := newService(t, mailer, WithVerifier(verifier))

	f := Form{Website: "http://spam.example"}
	res, err := s.Submit(context.Background(), f, Meta{IP: "198.51.100.1"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, MsgHoneypot, res.Message)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, verifier.tokens, "captcha is not checked for trapped bots")
}

func TestService_CaptchaFailure(t *testing.T) {
	mailer := &fakeMailer{}
	s := newService(t, mailer, WithVerifier(&fakeVerifier{err: ErrCaptchaFailed}))

	res, err := s.Submit(context.Background(), validForm(), Meta{IP: "198.51.100.1"})
	assert.ErrorIs(t, err, ErrCaptchaFailed)
	assert.False(t, res.Success)
	assert.Equal(t, MsgCaptcha, res.Message)
	assert.Empty(t, mailer.sent)
}

func TestService_ValidationErrors(t *testing.T) {
	mailer := &fakeMailer{}
	s := newService(t, mailer)

	res, err := s.Submit(context.Background(), Form{Email: "nope"}, Meta{IP: "198.51.100.1"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, MsgInvalid, res.Message)
	assert.Equal(t, map[string]string{
		"name":    "Il nome è obbligatorio",
		"email":   "Inserisci un'email valida",
		"message": "Il messaggio è obbligatorio",
		"privacy": "Devi accettare l'informativa sulla privacy",
	}, res.Errors)
	assert.Empty(t, mailer.sent)
}

func TestService_DeliveryFailureKeepsSubmission(t *testing.T) {
	db := testutil.TestDB(t)
	rec := &recordingStore{inner: store.NewSubmissions(db)}
	s := newService(t, &fakeMailer{err: errors.New("relay down")}, WithSubmissions(rec))

	res, err := s.Submit(context.Background(), validForm(), Meta{IP: "198.51.100.1"})
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Equal(t, MsgDelivery, res.Message)

	sub, err := store.NewSubmissions(db).Get(context.Background(), rec.id)
	require.NoError(t, err)
	assert.False(t, sub.Delivered)
}

func TestService_RateLimit(t *testing.T) {
	mailer := &fakeMailer{}
	s := newService(t, mailer)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Submit(ctx, validForm(), Meta{IP: "198.51.100.9"})
		require.NoError(t, err)
	}
	res, err := s.Submit(ctx, validForm(), Meta{IP: "198.51.100.9"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, MsgRateLimited, res.Message)

	_, err = s.Submit(ctx, validForm(), Meta{IP: "198.51.100.10"})
	assert.NoError(t, err, "other senders are not affected")
	assert.Len(t, mailer.sent, 6)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.Allow("x") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}
