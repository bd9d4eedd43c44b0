package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/localhive/local_hive/models"
)

// ContentGenerator is the narrow boundary to the hosted model. Everything
// above it fails closed: callers of AIService never see a provider error.
type ContentGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SessionLister supplies the candidate pool for recommendations.
type SessionLister interface {
	ListConfirmedSessions(limit int) ([]models.Session, error)
}

const recommendationPoolLimit = 20

type RecommendationInput struct {
	UserProfile  string `json:"user_profile" validate:"required"`
	Location     string `json:"location" validate:"required"`
	PastActivity string `json:"past_activity"`
	Availability string `json:"availability"`
}

type SessionRecommendation struct {
	SessionID   string  `json:"sessionId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Teacher     string  `json:"teacher"`
	Location    string  `json:"location"`
	DateTime    string  `json:"dateTime"`
	Price       float64 `json:"price"`
}

type RecommendationOutput struct {
	Recommendations []SessionRecommendation `json:"recommendations"`
	Reasoning       string                  `json:"reasoning"`
}

type ContentSuggestionInput struct {
	SessionTopic            string `json:"session_topic" validate:"required,min=3"`
	Keywords                string `json:"keywords"`
	TargetAudience          string `json:"target_audience"`
	CurrentDraftTitle       string `json:"current_draft_title"`
	CurrentDraftDescription string `json:"current_draft_description"`
	DesiredTone             string `json:"desired_tone" validate:"omitempty,oneof=friendly professional enthusiastic technical simple"`
}

type ContentSuggestionOutput struct {
	SuggestedTitles       []string `json:"suggestedTitles"`
	SuggestedDescriptions []string `json:"suggestedDescriptions"`
	TipsForEngagement     []string `json:"tipsForEngagement"`
}

const (
	reasoningNoSessions = "Currently, there are no specific learning sessions available that match your criteria or are active in our system. Please check back later or broaden your search!"
	reasoningProviderErr = "An error occurred while generating recommendations. Please try again later."
	reasoningNoMatch     = "We couldn't find a specific match from the available sessions based on your preferences."
	reasoningDefault     = "Here are some sessions you might like."
	tipProviderErr       = "Could not generate suggestions at this time. Please try again."
)

type AIService struct {
	gen      ContentGenerator
	sessions SessionLister
}

func NewAIService(gen ContentGenerator, sessions SessionLister) *AIService {
	return &AIService{gen: gen, sessions: sessions}
}

// RecommendSessions ranks the most recent confirmed sessions against the
// learner's context. The model may only pick from the supplied pool; any
// recommendation whose sessionId is not in the pool is dropped. All failure
// modes collapse into an empty recommendation list with a human-readable
// reasoning string.
func (s *AIService) RecommendSessions(ctx context.Context, input RecommendationInput) RecommendationOutput {
	pool, err := s.sessions.ListConfirmedSessions(recommendationPoolLimit)
	if err != nil {
		log.Printf("🔥 Failed to load sessions for recommendations: %v", err)
		return RecommendationOutput{Recommendations: []SessionRecommendation{}, Reasoning: reasoningProviderErr}
	}
	if len(pool) == 0 {
		return RecommendationOutput{Recommendations: []SessionRecommendation{}, Reasoning: reasoningNoSessions}
	}
	if s.gen == nil {
		return RecommendationOutput{Recommendations: []SessionRecommendation{}, Reasoning: reasoningProviderErr}
	}

	raw, err := s.gen.Generate(ctx, recommendationSystemPrompt, buildRecommendationPrompt(input, pool))
	if err != nil || strings.TrimSpace(raw) == "" {
		log.Printf("🔥 Recommendation generation failed: %v", err)
		return RecommendationOutput{Recommendations: []SessionRecommendation{}, Reasoning: reasoningProviderErr}
	}

	var out RecommendationOutput
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
		log.Printf("🔥 Could not parse recommendation payload: %v", err)
		return RecommendationOutput{Recommendations: []SessionRecommendation{}, Reasoning: reasoningProviderErr}
	}

	known := make(map[string]bool, len(pool))
	for _, session := range pool {
		known[session.ID.String()] = true
	}
	valid := make([]SessionRecommendation, 0, len(out.Recommendations))
	for _, rec := range out.Recommendations {
		if known[rec.SessionID] {
			valid = append(valid, rec)
		} else {
			log.Printf("Dropping recommendation for unknown session id %s", rec.SessionID)
		}
	}

	reasoning := strings.TrimSpace(out.Reasoning)
	if reasoning == "" {
		if len(valid) > 0 {
			reasoning = reasoningDefault
		} else {
			reasoning = reasoningNoMatch
		}
	}
	return RecommendationOutput{Recommendations: valid, Reasoning: reasoning}
}

// SuggestSessionContent drafts titles, descriptions, and engagement tips for
// a teacher's session. Provider failure and unparsable output both yield the
// empty-suggestion fallback with an explanatory tip.
func (s *AIService) SuggestSessionContent(ctx context.Context, input ContentSuggestionInput) ContentSuggestionOutput {
	fallback := ContentSuggestionOutput{
		SuggestedTitles:       []string{},
		SuggestedDescriptions: []string{},
		TipsForEngagement:     []string{tipProviderErr},
	}

	if s.gen == nil {
		return fallback
	}
	raw, err := s.gen.Generate(ctx, contentSystemPrompt, buildContentPrompt(input))
	if err != nil || strings.TrimSpace(raw) == "" {
		log.Printf("🔥 Content suggestion generation failed: %v", err)
		return fallback
	}

	var out ContentSuggestionOutput
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
		log.Printf("🔥 Could not parse content suggestion payload: %v", err)
		return fallback
	}
	if out.SuggestedTitles == nil {
		out.SuggestedTitles = []string{}
	}
	if out.SuggestedDescriptions == nil {
		out.SuggestedDescriptions = []string{}
	}
	if len(out.TipsForEngagement) == 0 {
		out.TipsForEngagement = []string{"Keep your title short and concrete, and open the description with what learners will be able to do afterwards."}
	}
	return out
}

const recommendationSystemPrompt = `You are an AI assistant designed to provide personalized session recommendations to learners on a skill-sharing marketplace.
You MUST choose sessions ONLY from the "Available Sessions List" provided by the user.
For each recommended session, you MUST use the 'id' from the list as the 'sessionId' in your output.
The 'teacher' field may be a placeholder like "Provided by Teacher" when not present in the list item.
Do not invent sessions or session IDs.
Respond with JSON only, matching:
{"recommendations":[{"sessionId":"string","title":"string","description":"string","category":"string","teacher":"string","location":"string","dateTime":"string","price":0}],"reasoning":"string"}`

func buildRecommendationPrompt(input RecommendationInput, pool []models.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Profile: %s\n", input.UserProfile)
	fmt.Fprintf(&b, "Location: %s\n", input.Location)
	fmt.Fprintf(&b, "Past Activity: %s\n", input.PastActivity)
	fmt.Fprintf(&b, "Availability: %s\n\n", input.Availability)
	b.WriteString("Available Sessions List:\n")
	for _, session := range pool {
		fmt.Fprintf(&b, "- ID: %s\n  Title: %s\n  Category: %s\n  Description: %s\n  Location: %s\n  Date/Time: %s\n  Price: %.2f\n",
			session.ID, session.Title, session.Category, session.Description,
			session.Location, session.DateTime.Format(time.RFC3339), session.Price)
	}
	b.WriteString("\nProvide up to 3-5 relevant sessions from the list. If none are a good match, say so in 'reasoning' and return an empty 'recommendations' array.")
	return b.String()
}

const contentSystemPrompt = `You are an expert creative copywriter specializing in educational content for skill-sharing platforms.
A teacher needs help crafting compelling titles and descriptions for their upcoming session.
Generate 3-5 unique, catchy titles, 2-3 engaging descriptions of about 2-4 sentences each, and 1-2 general engagement tips.
If draft content is provided, improve upon it or offer alternatives rather than repeating it.
Respond with JSON only, matching:
{"suggestedTitles":["string"],"suggestedDescriptions":["string"],"tipsForEngagement":["string"]}`

func buildContentPrompt(input ContentSuggestionInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session Details Provided by Teacher:\n- Topic: %s\n", input.SessionTopic)
	if input.Keywords != "" {
		fmt.Fprintf(&b, "- Keywords: %s\n", input.Keywords)
	}
	if input.TargetAudience != "" {
		fmt.Fprintf(&b, "- Target Audience: %s\n", input.TargetAudience)
	}
	if input.CurrentDraftTitle != "" {
		fmt.Fprintf(&b, "- Current Draft Title: %s\n", input.CurrentDraftTitle)
	}
	if input.CurrentDraftDescription != "" {
		fmt.Fprintf(&b, "- Current Draft Description: %s\n", input.CurrentDraftDescription)
	}
	tone := input.DesiredTone
	if tone == "" {
		tone = "friendly and inviting"
	}
	fmt.Fprintf(&b, "- Desired Tone: %s\n", tone)
	return b.String()
}

// stripCodeFences unwraps a ```json ... ``` block when the model insists on
// returning one.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
