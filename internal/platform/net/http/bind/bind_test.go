package bind

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "ytchat/internal/platform/errors"
)

type turn struct {
	Role string `json:"role" validate:"required,oneof=user assistant"`
	Text string `json:"text" validate:"required"`
}

type askBody struct {
	URL      string `json:"youtube_url" validate:"required,max=40"`
	Question string `json:"question" validate:"required,notblank,min=3"`
	History  []turn `json:"chat_history,omitempty" validate:"omitempty,max=2,dive"`
	Internal string `json:"-"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
}

func TestParseJSON_OK(t *testing.T) {
	got, err := ParseJSON[askBody](post(`{"youtube_url":"https://youtu.be/abc","question":"why?","chat_history":[{"role":"user","text":"hi"}]}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got.URL != "https://youtu.be/abc" || got.Question != "why?" || len(got.History) != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_Failures(t *testing.T) {
	cases := []struct {
		name  string
		req   *http.Request
		code  perr.ErrorCode
		field string
		msg   string
	}{
		{"no body", httptest.NewRequest(http.MethodPost, "/ask", http.NoBody), perr.ErrorCodeJSON, "", "empty body"},
		{"whitespace body", post("  \n"), perr.ErrorCodeJSON, "", "empty body"},
		{"malformed", post(`{"question":`), perr.ErrorCodeJSON, "", ""},
		{"unknown field", post(`{"youtube_url":"u","question":"why?","extra":1}`), perr.ErrorCodeJSON, "", ""},
		{"trailing", post(`{"youtube_url":"u","question":"why?"} {}`), perr.ErrorCodeJSON, "", "unexpected trailing data"},
		{"missing url", post(`{"question":"why?"}`), perr.ErrorCodeValidation, "youtube_url", ""},
		{"blank question", post(`{"youtube_url":"u","question":"   "}`), perr.ErrorCodeValidation, "question", "question must not be blank"},
		{"short question", post(`{"youtube_url":"u","question":"ab"}`), perr.ErrorCodeValidation, "question", "question must be at least 3"},
		{"long url", post(`{"youtube_url":"` + strings.Repeat("u", 41) + `","question":"why?"}`), perr.ErrorCodeValidation, "youtube_url", "youtube_url must be at most 40"},
		{"bad role", post(`{"youtube_url":"u","question":"why?","chat_history":[{"role":"system","text":"x"}]}`), perr.ErrorCodeValidation, "role", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON[askBody](tc.req)
			e, ok := perr.As(err)
			if !ok || e.Code() != tc.code {
				t.Fatalf("err = %v, want code %d", err, tc.code)
			}
			if e.Field() != tc.field {
				t.Fatalf("field = %q, want %q", e.Field(), tc.field)
			}
			if tc.msg != "" && perr.WireFrom(err).Message != tc.msg {
				t.Fatalf("message = %q, want %q", perr.WireFrom(err).Message, tc.msg)
			}
		})
	}
}

func TestParseJSON_Options(t *testing.T) {
	body := `{"youtube_url":"u","question":"why?","extra":1}`
	if _, err := ParseJSON[askBody](post(body), JSONOptions{AllowUnknown: true}); err != nil {
		t.Fatalf("AllowUnknown: %v", err)
	}
	if _, err := ParseJSON[askBody](post(body), JSONOptions{AllowUnknown: true, MaxBytes: 10}); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("MaxBytes should truncate into a decode error, got %v", err)
	}
}

func TestParseJSON_NonStructTarget(t *testing.T) {
	_, err := ParseJSON[[]string](post(`["a"]`))
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("validator misuse should surface as JSON error, got %v", err)
	}
}

func TestFieldAndMessage(t *testing.T) {
	if f, m := FieldAndMessage(nil); f != "" || m != "" {
		t.Fatalf("nil = %q %q", f, m)
	}
	if _, m := FieldAndMessage(errors.New("plain")); m != "plain" {
		t.Fatalf("plain = %q", m)
	}
	err := Get().Validator.Struct(askBody{URL: "u"})
	if f, m := FieldAndMessage(err); f != "question" || m != "question is a required field" {
		t.Fatalf("got %q %q", f, m)
	}
}

func TestGet_Singleton(t *testing.T) {
	if Get() != Get() {
		t.Fatalf("Get should return one instance")
	}
}
