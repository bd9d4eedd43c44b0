package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localhive/local_hive/models"
)

type stubGenerator struct {
	response string
	err      error
	called   bool
}

func (g *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.called = true
	return g.response, g.err
}

type stubSessionLister struct {
	sessions []models.Session
	err      error
}

func (l *stubSessionLister) ListConfirmedSessions(limit int) ([]models.Session, error) {
	return l.sessions, l.err
}

func sampleSession(title string) models.Session {
	return models.Session{
		ID:       uuid.New(),
		Title:    title,
		Category: "Cooking & Baking",
		Status:   models.SessionStatusConfirmed,
		DateTime: time.Now().Add(24 * time.Hour),
	}
}

func recommendationJSON(id, title string) string {
	return fmt.Sprintf(`{"recommendations":[{"sessionId":"%s","title":"%s","price":0}],"reasoning":"A good fit."}`, id, title)
}

func TestRecommendSessionsEmptyPoolShortCircuits(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewAIService(gen, &stubSessionLister{})

	out := svc.RecommendSessions(context.Background(), RecommendationInput{UserProfile: "x", Location: "y"})
	if len(out.Recommendations) != 0 {
		t.Fatalf("expected no recommendations, got %+v", out.Recommendations)
	}
	if out.Reasoning != reasoningNoSessions {
		t.Fatalf("expected canonical no-sessions reasoning, got %q", out.Reasoning)
	}
	if gen.called {
		t.Fatal("provider must not be called when the pool is empty")
	}
}

func TestRecommendSessionsProviderFailureFallsBack(t *testing.T) {
	session := sampleSession("Sourdough Basics")
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	svc := NewAIService(gen, &stubSessionLister{sessions: []models.Session{session}})

	out := svc.RecommendSessions(context.Background(), RecommendationInput{UserProfile: "x", Location: "y"})
	if len(out.Recommendations) != 0 {
		t.Fatalf("expected empty recommendations on provider failure, got %+v", out.Recommendations)
	}
	if out.Reasoning != reasoningProviderErr {
		t.Fatalf("expected provider-error reasoning, got %q", out.Reasoning)
	}
}

func TestRecommendSessionsUnparsableOutputFallsBack(t *testing.T) {
	session := sampleSession("Sourdough Basics")
	gen := &stubGenerator{response: "sure! here are my picks: 1) baking"}
	svc := NewAIService(gen, &stubSessionLister{sessions: []models.Session{session}})

	out := svc.RecommendSessions(context.Background(), RecommendationInput{UserProfile: "x", Location: "y"})
	if len(out.Recommendations) != 0 || out.Reasoning != reasoningProviderErr {
		t.Fatalf("expected fallback on unparsable output, got %+v", out)
	}
}

func TestRecommendSessionsStripsCodeFences(t *testing.T) {
	session := sampleSession("Sourdough Basics")
	gen := &stubGenerator{response: "```json\n" + recommendationJSON(session.ID.String(), session.Title) + "\n```"}
	svc := NewAIService(gen, &stubSessionLister{sessions: []models.Session{session}})

	out := svc.RecommendSessions(context.Background(), RecommendationInput{UserProfile: "x", Location: "y"})
	if len(out.Recommendations) != 1 {
		t.Fatalf("fenced JSON should still parse, got %+v", out)
	}
	if out.Recommendations[0].SessionID != session.ID.String() {
		t.Fatalf("unexpected session id %s", out.Recommendations[0].SessionID)
	}
}

func TestRecommendSessionsDropsHallucinatedIDs(t *testing.T) {
	session := sampleSession("Sourdough Basics")
	payload := fmt.Sprintf(`{"recommendations":[{"sessionId":"%s","title":"real"},{"sessionId":"%s","title":"invented"}],"reasoning":""}`,
		session.ID.String(), uuid.New().String())
	gen := &stubGenerator{response: payload}
	svc := NewAIService(gen, &stubSessionLister{sessions: []models.Session{session}})

	out := svc.RecommendSessions(context.Background(), RecommendationInput{UserProfile: "x", Location: "y"})
	if len(out.Recommendations) != 1 {
		t.Fatalf("hallucinated id should be dropped, got %+v", out.Recommendations)
	}
	if out.Recommendations[0].Title != "real" {
		t.Fatalf("kept the wrong recommendation: %+v", out.Recommendations[0])
	}
	if out.Reasoning != reasoningDefault {
		t.Fatalf("blank reasoning with matches should get the default, got %q", out.Reasoning)
	}
}

func TestRecommendSessionsAllDroppedYieldsNoMatch(t *testing.T) {
	session := sampleSession("Sourdough Basics")
	gen := &stubGenerator{response: recommendationJSON(uuid.New().String(), "invented")}
	svc := NewAIService(gen, &stubSessionLister{sessions: []models.Session{session}})

	out := svc.RecommendSessions(context.Background(), RecommendationInput{UserProfile: "x", Location: "y"})
	if len(out.Recommendations) != 0 {
		t.Fatalf("expected everything dropped, got %+v", out.Recommendations)
	}
	// the model's own reasoning was blank after the drop, so the canonical
	// no-match string applies
	if out.Reasoning != reasoningNoMatch {
		t.Fatalf("expected no-match reasoning, got %q", out.Reasoning)
	}
}

func TestRecommendSessionsNilGenerator(t *testing.T) {
	session := sampleSession("Sourdough Basics")
	svc := NewAIService(nil, &stubSessionLister{sessions: []models.Session{session}})

	out := svc.RecommendSessions(context.Background(), RecommendationInput{UserProfile: "x", Location: "y"})
	if len(out.Recommendations) != 0 || out.Reasoning != reasoningProviderErr {
		t.Fatalf("nil provider should fall back, got %+v", out)
	}
}

func TestSuggestSessionContentHappyPath(t *testing.T) {
	gen := &stubGenerator{response: `{"suggestedTitles":["Bake Better Bread"],"suggestedDescriptions":["Learn the basics."],"tipsForEngagement":["Bring samples."]}`}
	svc := NewAIService(gen, &stubSessionLister{})

	out := svc.SuggestSessionContent(context.Background(), ContentSuggestionInput{SessionTopic: "sourdough"})
	if len(out.SuggestedTitles) != 1 || out.SuggestedTitles[0] != "Bake Better Bread" {
		t.Fatalf("unexpected titles: %+v", out.SuggestedTitles)
	}
	if len(out.TipsForEngagement) != 1 {
		t.Fatalf("unexpected tips: %+v", out.TipsForEngagement)
	}
}

func TestSuggestSessionContentProviderFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("timeout")}
	svc := NewAIService(gen, &stubSessionLister{})

	out := svc.SuggestSessionContent(context.Background(), ContentSuggestionInput{SessionTopic: "sourdough"})
	if len(out.SuggestedTitles) != 0 || len(out.SuggestedDescriptions) != 0 {
		t.Fatalf("fallback should carry empty suggestion lists, got %+v", out)
	}
	if len(out.TipsForEngagement) != 1 || out.TipsForEngagement[0] != tipProviderErr {
		t.Fatalf("expected canonical provider-error tip, got %+v", out.TipsForEngagement)
	}
}

func TestSuggestSessionContentNormalizesNilSlices(t *testing.T) {
	gen := &stubGenerator{response: `{"suggestedTitles":null,"suggestedDescriptions":null,"tipsForEngagement":[]}`}
	svc := NewAIService(gen, &stubSessionLister{})

	out := svc.SuggestSessionContent(context.Background(), ContentSuggestionInput{SessionTopic: "sourdough"})
	if out.SuggestedTitles == nil || out.SuggestedDescriptions == nil {
		t.Fatalf("nil slices should be normalized to empty, got %+v", out)
	}
	if len(out.TipsForEngagement) == 0 {
		t.Fatal("empty tips should be replaced with a default tip")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
	}
	for input, want := range cases {
		if got := stripCodeFences(input); got != want {
			t.Fatalf("stripCodeFences(%q) = %q, want %q", input, got, want)
		}
	}
}
