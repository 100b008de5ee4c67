package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/schema"
	"github.com/spektr-org/datasynth/synthtest"
)

// ============================================================================
// CLIENT TESTS
// ============================================================================

func newTestClient(t *testing.T) (*Client, *synthtest.Service) {
	t.Helper()
	svc, srv := synthtest.NewServer(t)
	return NewClient(Config{BaseURL: srv.URL + "/"}), svc
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
	c = NewClient(Config{BaseURL: "http://example.test/api/"})
	if c.BaseURL() != "http://example.test/api" {
		t.Errorf("trailing slash not trimmed: %q", c.BaseURL())
	}
}

func TestSuggestSchemaEncodesDescriptionInQuery(t *testing.T) {
	c, svc := newTestClient(t)

	s, err := c.SuggestSchema(context.Background(), SourceAI, "online retail orders & returns")
	if err != nil {
		t.Fatalf("SuggestSchema: %v", err)
	}

	req := svc.LastRequest()
	if req == nil {
		t.Fatal("no request recorded")
	}
	if req.Method != http.MethodPost || req.Path != "/suggest-schema" {
		t.Errorf("request = %s %s, want POST /suggest-schema", req.Method, req.Path)
	}
	q, err := url.ParseQuery(req.Query)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if got := q.Get("description"); got != "online retail orders & returns" {
		t.Errorf("description = %q", got)
	}

	if len(s.Fields) == 0 || s.Fields[0].Name != "order_id" {
		t.Fatalf("fields = %+v, want order template", s.Fields)
	}
	for _, f := range s.Fields {
		if !f.UseAI {
			t.Errorf("field %q has UseAI=false", f.Name)
		}
	}
	if s.Reasoning == "" {
		t.Error("expected reasoning")
	}
}

func TestSuggestSchemaWebUsesWebPath(t *testing.T) {
	c, svc := newTestClient(t)

	if _, err := c.SuggestSchema(context.Background(), SourceWeb, "weather"); err != nil {
		t.Fatalf("SuggestSchema: %v", err)
	}
	if got := svc.LastRequest().Path; got != "/suggest-schema-web" {
		t.Errorf("path = %q, want /suggest-schema-web", got)
	}
}

func TestSuggestSchemaFailure(t *testing.T) {
	c, svc := newTestClient(t)
	svc.FailWith("/suggest-schema", http.StatusInternalServerError)

	before := testutil.ToFloat64(callsTotal.WithLabelValues(OpSuggest, "error"))
	_, err := c.SuggestSchema(context.Background(), SourceAI, "anything")
	if !errors.Is(err, ErrRemoteCallFailed) {
		t.Fatalf("err = %v, want ErrRemoteCallFailed", err)
	}
	var ce *CallError
	if !errors.As(err, &ce) {
		t.Fatalf("err is %T, want *CallError", err)
	}
	if ce.StatusCode != http.StatusInternalServerError || ce.Op != OpSuggest {
		t.Errorf("CallError = %+v", ce)
	}
	if after := testutil.ToFloat64(callsTotal.WithLabelValues(OpSuggest, "error")); after-before != 1 {
		t.Errorf("error counter delta = %v, want 1", after-before)
	}
}

func TestSuggestSchemaRejectsBodyWithoutFields(t *testing.T) {
	c, svc := newTestClient(t)
	svc.RespondRaw("/suggest-schema", []byte(`{"global_reasoning":"none"}`))

	_, err := c.SuggestSchema(context.Background(), SourceAI, "x")
	if !errors.Is(err, ErrRemoteCallFailed) {
		t.Fatalf("err = %v, want ErrRemoteCallFailed", err)
	}
	if !errors.Is(err, errNoFieldsIn) {
		t.Errorf("err = %v, want to wrap errNoFieldsIn", err)
	}
}

func TestGenerateSendsBodyAndDefaultsRows(t *testing.T) {
	c, svc := newTestClient(t)

	fields := []schema.Field{
		{Name: "city", Description: "City name", UseAI: true},
		{Name: "population", Description: "People", UseAI: true},
	}
	rows, err := c.Generate(context.Background(), GenerateRequest{
		Description: "Indian cities",
		Country:     "hi_IN",
		Fields:      fields,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(rows) != DefaultRows {
		t.Errorf("len(rows) = %d, want %d", len(rows), DefaultRows)
	}

	req := svc.LastRequest()
	if req.Path != "/generate" || req.ContentType != "application/json" {
		t.Errorf("request = %s %q", req.Path, req.ContentType)
	}
	var body GenerateRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body.Rows != DefaultRows || body.Country != "hi_IN" || body.Description != "Indian cities" {
		t.Errorf("body = %+v", body)
	}
	if !reflect.DeepEqual(body.Fields, fields) {
		t.Errorf("fields = %+v, want %+v", body.Fields, fields)
	}
}

func TestGenerateAcceptsBothShapes(t *testing.T) {
	fields := []schema.Field{{Name: "id"}, {Name: "name"}, {Name: "score"}}

	for _, shape := range []synthtest.Shape{synthtest.ShapeArray, synthtest.ShapeWrapped} {
		c, svc := newTestClient(t)
		svc.SetShape(shape)

		rows, err := c.Generate(context.Background(), GenerateRequest{Description: "d", Rows: 3, Fields: fields})
		if err != nil {
			t.Fatalf("shape %d: Generate: %v", shape, err)
		}
		if len(rows) != 3 {
			t.Fatalf("shape %d: len(rows) = %d", shape, len(rows))
		}
		if got := rows.Columns(); !reflect.DeepEqual(got, []string{"id", "name", "score"}) {
			t.Errorf("shape %d: columns = %v", shape, got)
		}
	}
}

func TestGenerateFailureCountsError(t *testing.T) {
	c, svc := newTestClient(t)
	svc.FailWith("/generate", http.StatusBadGateway)

	before := testutil.ToFloat64(callsTotal.WithLabelValues(OpGenerate, "error"))
	beforeOK := testutil.ToFloat64(callsTotal.WithLabelValues(OpGenerate, "ok"))

	_, err := c.Generate(context.Background(), GenerateRequest{Description: "d"})
	var ce *CallError
	if !errors.As(err, &ce) || ce.StatusCode != http.StatusBadGateway {
		t.Fatalf("err = %v, want CallError with 502", err)
	}
	if d := testutil.ToFloat64(callsTotal.WithLabelValues(OpGenerate, "error")) - before; d != 1 {
		t.Errorf("error delta = %v", d)
	}
	if d := testutil.ToFloat64(callsTotal.WithLabelValues(OpGenerate, "ok")) - beforeOK; d != 0 {
		t.Errorf("ok delta = %v, want 0", d)
	}
}

func TestGenerateRejectsUnexpectedShape(t *testing.T) {
	c, svc := newTestClient(t)
	svc.RespondRaw("/generate", []byte(`{"data":[]}`))

	_, err := c.Generate(context.Background(), GenerateRequest{Description: "d"})
	if !errors.Is(err, errNotRows) || !errors.Is(err, ErrRemoteCallFailed) {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateHonoursContext(t *testing.T) {
	c, svc := newTestClient(t)
	svc.Hold()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, GenerateRequest{Description: "d"})
	if !errors.Is(err, ErrRemoteCallFailed) {
		t.Fatalf("err = %v, want ErrRemoteCallFailed", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want to wrap DeadlineExceeded", err)
	}
}

// ============================================================================
// PARSER TESTS
// ============================================================================

func TestParseRowsPreservesKeyOrderAndTypes(t *testing.T) {
	body := []byte(`{"rows":[{"zeta":"a","alpha":1.5,"ok":true,"none":null,"tags":["x",1]}]}`)

	rows, err := ParseRows(body)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	want := engine.Row{
		{Key: "zeta", Value: engine.String("a")},
		{Key: "alpha", Value: engine.Number(1.5)},
		{Key: "ok", Value: engine.Bool(true)},
		{Key: "none", Value: engine.Null()},
		{Key: "tags", Value: engine.String(`["x",1]`)},
	}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("row = %+v, want %+v", rows[0], want)
	}
}

func TestParseRowsDuplicateKeyKeepsPosition(t *testing.T) {
	rows, err := ParseRows([]byte(`[{"a":1,"b":2,"a":3}]`))
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if got := rows[0].Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("keys = %v", got)
	}
	if f, _ := rows[0].Get("a").Float(); f != 3 {
		t.Errorf("a = %v, want 3", f)
	}
}

func TestParseRowsEmptyAndInvalid(t *testing.T) {
	rows, err := ParseRows([]byte(`[]`))
	if err != nil || len(rows) != 0 {
		t.Errorf("ParseRows([]) = %v, %v", rows, err)
	}
	for _, body := range []string{``, `"rows"`, `{"rows":{}}`, `[1,2]`} {
		if _, err := ParseRows([]byte(body)); err == nil {
			t.Errorf("ParseRows(%q) expected error", body)
		}
	}
}
