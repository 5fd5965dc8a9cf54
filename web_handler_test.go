package main

import (
	"bytes"
	"compress/gzip"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/eda_dashboard/config"
	"github.com/pivolan/eda_dashboard/dashboard"
)

const loanCSV = `Loan_ID,Age,Gender,Loan_Status,Credit_History
LP001,25,Male,Y,1
LP002,,Female,N,0
LP003,40,Male,Y,1
LP004,31,Female,Y,1
LP005,52,Male,N,0
`

func testConfig() *config.Config {
	return &config.Config{
		Addr:          ":0",
		MaxUploadMB:   1,
		MaxUnpackedMB: 4,
		PreviewRows:   5,
		SessionTTL:    time.Hour,
		LogLevel:      "INFO",
	}
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func sessionCookieOf(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", sessionCookie)
	return nil
}

func do(s *server, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestIndexWithoutUpload(t *testing.T) {
	s := newServer(testConfig(), newSessionStore(time.Hour))

	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), dashboard.UploadPrompt)
	assert.NotContains(t, rec.Body.String(), `<section id=`)
	assert.NotEmpty(t, sessionCookieOf(t, rec).Value)
}

func TestUploadThenBrowse(t *testing.T) {
	store := newSessionStore(time.Hour)
	s := newServer(testConfig(), store)

	rec := do(s, uploadRequest(t, "loan.csv", loanCSV), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookie := sessionCookieOf(t, rec)
	assert.Equal(t, 1, store.Len())

	rec = do(s, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, id := range []string{dashboard.SectionPreview, dashboard.SectionCorrelation, dashboard.SectionLoanVsCredit, dashboard.SectionMissingHeatmap} {
		assert.Contains(t, body, `<section id="`+id+`">`)
	}
	assert.Contains(t, body, "loan.csv")
	assert.Contains(t, body, dashboard.SuccessMessage)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/?num=Credit_History&cat=Gender", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="Credit_History" selected>`)
	assert.Contains(t, rec.Body.String(), `<option value="Gender" selected>`)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newServer(testConfig(), newSessionStore(time.Hour))

	rec := do(s, uploadRequest(t, "loan.csv", loanCSV), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Contains(t, rec.Body.String(), dashboard.UploadPrompt)
}

func TestUploadMalformedFile(t *testing.T) {
	store := newSessionStore(time.Hour)
	s := newServer(testConfig(), store)

	rec := do(s, uploadRequest(t, "loan.csv", loanCSV), nil)
	cookie := sessionCookieOf(t, rec)

	rec = do(s, uploadRequest(t, "bad.csv", "a,b\n1,2\n3,4,5\n"), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="error"`)
	assert.Contains(t, body, "Could not read the file: parse bad.csv line 3")
	assert.Contains(t, body, dashboard.UploadPrompt)
	assert.Equal(t, 0, store.Len())

	rec = do(s, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	assert.Contains(t, rec.Body.String(), dashboard.UploadPrompt)
}

func TestUploadWithoutFile(t *testing.T) {
	s := newServer(testConfig(), newSessionStore(time.Hour))

	rec := do(s, uploadRequest(t, "", ""), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "choose a file")
}

func TestUploadTooLarge(t *testing.T) {
	s := newServer(testConfig(), newSessionStore(time.Hour))

	big := "a,b\n" + strings.Repeat("1,2\n", 600_000)
	rec := do(s, uploadRequest(t, "big.csv", big), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="error"`)
}

func TestUploadDecompressesPastLimit(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write([]byte("a,b\n" + strings.Repeat("1,2\n", 2_000_000)))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.Less(t, gz.Len(), 1<<20)

	store := newSessionStore(time.Hour)
	s := newServer(testConfig(), store)
	rec := do(s, uploadRequest(t, "bomb.csv.gz", gz.String()), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "decompressed size exceeds")
	assert.Equal(t, 0, store.Len())
}

func TestHealthz(t *testing.T) {
	s := newServer(testConfig(), newSessionStore(time.Hour))

	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
