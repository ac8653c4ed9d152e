package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/service/intent"
	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/chat_system.md
var chatSystemPromptTmpl string

var chatSystemPrompt = template.Must(template.New("chat_system").Parse(chatSystemPromptTmpl))

const (
	// chatHistoryWindow is how many earlier messages are given to the LLM.
	chatHistoryWindow = 10

	cannedReply   = "Thanks for your message! I can help you update business hours, edit your listings or draft social media posts. For anything else, our team will get back to you shortly."
	fallbackReply = "Sorry, I couldn't generate a reply."

	hoursClarification   = `I can update your business hours. Which days and times should I set? For example: "Monday through Friday 9am to 5pm, closed Sunday".`
	listingClarification = "What should I change on your listing? I can update the phone number, website, description or address."
)

// ChatUseCase turns operator messages into PENDING actions or replies.
type ChatUseCase struct {
	repo       interfaces.Repository
	actions    *ActionUseCase
	business   *config.Business
	llmClient  gollem.LLMClient
	classifier *intent.Classifier
	parser     *intent.HoursParser
}

// NewChatUseCase returns a ChatUseCase. llmClient may be nil, in which case
// messages without a recognized intent get a canned reply.
func NewChatUseCase(repo interfaces.Repository, actions *ActionUseCase, business *config.Business, llmClient gollem.LLMClient) *ChatUseCase {
	return &ChatUseCase{
		repo:       repo,
		actions:    actions,
		business:   business,
		llmClient:  llmClient,
		classifier: intent.NewClassifier(),
		parser:     intent.NewHoursParser(),
	}
}

// ChatInput is one inbound message.
type ChatInput struct {
	OrgID     string
	SessionID string
	Text      string
	User      string
}

// HandleMessage records text in the session history, acts on its intent and
// records the reply.
func (uc *ChatUseCase) HandleMessage(ctx context.Context, in ChatInput) (*model.ChatReply, error) {
	if in.SessionID == "" {
		return nil, goerr.Wrap(ErrValidation, "session_id is required")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, goerr.Wrap(ErrValidation, "text is required", goerr.V(SessionIDKey, in.SessionID))
	}
	if in.OrgID == "" && uc.business != nil {
		in.OrgID = uc.business.OrgID
	}

	if _, err := uc.repo.Chat().AppendMessage(ctx, &model.ChatMessage{
		OrgID:     in.OrgID,
		SessionID: in.SessionID,
		Role:      model.ChatRoleUser,
		Content:   in.Text,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to record user message", goerr.V(SessionIDKey, in.SessionID))
	}

	detected := uc.classifier.Classify(in.Text)
	logging.From(ctx).Debug("chat intent classified", "session_id", in.SessionID, "intent", detected)

	var (
		reply *model.ChatReply
		err   error
	)
	switch detected {
	case types.IntentBusinessHours:
		reply, err = uc.proposeHours(ctx, in)
	case types.IntentSocialMedia:
		reply, err = uc.proposeSocialPost(ctx, in)
	case types.IntentListingUpdate:
		reply, err = uc.proposeListingUpdate(ctx, in)
	default:
		reply = &model.ChatReply{Reply: uc.converse(ctx, in)}
	}
	if err != nil {
		return nil, err
	}
	reply.Intent = detected.String()

	msg := &model.ChatMessage{
		OrgID:     in.OrgID,
		SessionID: in.SessionID,
		Role:      model.ChatRoleAssistant,
		Content:   reply.Reply,
	}
	if len(reply.Actions) > 0 {
		msg.ActionID = reply.Actions[0].ID
	}
	if _, err := uc.repo.Chat().AppendMessage(ctx, msg); err != nil {
		return nil, goerr.Wrap(err, "failed to record assistant reply", goerr.V(SessionIDKey, in.SessionID))
	}

	return reply, nil
}

// History returns the last limit messages of a session, oldest first.
func (uc *ChatUseCase) History(ctx context.Context, sessionID string, limit int) ([]*model.ChatMessage, error) {
	if sessionID == "" {
		return nil, goerr.Wrap(ErrValidation, "session_id is required")
	}
	msgs, err := uc.repo.Chat().ListMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list messages", goerr.V(SessionIDKey, sessionID))
	}
	return msgs, nil
}

func (uc *ChatUseCase) proposeHours(ctx context.Context, in ChatInput) (*model.ChatReply, error) {
	hours, ok := uc.parser.Parse(in.Text)
	if !ok {
		return &model.ChatReply{Reply: hoursClarification}, nil
	}

	platforms := uc.actions.hoursPlatforms()
	params, err := model.ToParams(model.HoursUpdateParams{Hours: hours, Platforms: platforms})
	if err != nil {
		return nil, err
	}

	action, err := uc.actions.CreateAction(ctx, CreateActionInput{
		OrgID:     in.OrgID,
		SessionID: in.SessionID,
		Type:      types.ActionTypeUpdateBusinessHours,
		Params:    params,
		CreatedBy: in.User,
	})
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(hours))
	for _, d := range hours.Days() {
		lines = append(lines, fmt.Sprintf("- %s: %s", d, hours[d]))
	}
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.String())
	}

	return &model.ChatReply{
		Reply: fmt.Sprintf("I've prepared a business hours update for your approval:\n%s\nOnce approved it will be applied to %s.",
			strings.Join(lines, "\n"), strings.Join(names, ", ")),
		Actions: []*model.Action{action},
	}, nil
}

func (uc *ChatUseCase) proposeSocialPost(ctx context.Context, in ChatInput) (*model.ChatReply, error) {
	post := intent.ExtractSocialPost(in.Text)
	params, err := model.ToParams(post)
	if err != nil {
		return nil, err
	}

	action, err := uc.actions.CreateAction(ctx, CreateActionInput{
		OrgID:     in.OrgID,
		SessionID: in.SessionID,
		Type:      types.ActionTypeDraftSocialPost,
		Params:    params,
		CreatedBy: in.User,
	})
	if err != nil {
		return nil, err
	}

	return &model.ChatReply{
		Reply:   fmt.Sprintf("I've drafted a %s post for your approval:\n\n%s", post.Platform, post.Content),
		Actions: []*model.Action{action},
	}, nil
}

func (uc *ChatUseCase) proposeListingUpdate(ctx context.Context, in ChatInput) (*model.ChatReply, error) {
	info := intent.ExtractListingInfo(in.Text)
	if len(info) == 0 {
		return &model.ChatReply{Reply: listingClarification}, nil
	}

	targets := []types.ActionType{types.ActionTypeUpdateGoogleBusinessProfile}
	if strings.Contains(strings.ToLower(in.Text), "yelp") {
		targets = append(targets, types.ActionTypeUpdateYelpListing)
	}

	params, err := model.ToParams(model.ListingUpdateParams{Info: info})
	if err != nil {
		return nil, err
	}

	reply := &model.ChatReply{}
	for _, t := range targets {
		action, err := uc.actions.CreateAction(ctx, CreateActionInput{
			OrgID:     in.OrgID,
			SessionID: in.SessionID,
			Type:      t,
			Params:    params,
			CreatedBy: in.User,
		})
		if err != nil {
			return nil, err
		}
		reply.Actions = append(reply.Actions, action)
	}

	fields := make([]string, 0, len(info))
	for _, k := range []string{"name", "phone", "website", "description", "address"} {
		if v, ok := info[k]; ok {
			fields = append(fields, fmt.Sprintf("- %s: %v", k, v))
		}
	}
	reply.Reply = "I've prepared a listing update for your approval:\n" + strings.Join(fields, "\n")
	return reply, nil
}

// converse answers a message without an actionable intent. LLM failures
// degrade to a fixed reply.
func (uc *ChatUseCase) converse(ctx context.Context, in ChatInput) string {
	if uc.llmClient == nil {
		return cannedReply
	}

	reply, err := uc.llmReply(ctx, in)
	if err != nil {
		errutil.Handle(ctx, err, "failed to generate chat reply")
		return fallbackReply
	}
	return reply
}

func (uc *ChatUseCase) llmReply(ctx context.Context, in ChatInput) (string, error) {
	history, err := uc.repo.Chat().ListMessages(ctx, in.SessionID, chatHistoryWindow+1)
	if err != nil {
		return "", goerr.Wrap(err, "failed to load chat history", goerr.V(SessionIDKey, in.SessionID))
	}
	// The newest entry is the message being answered.
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	name := "the business"
	if uc.business != nil && uc.business.Name != "" {
		name = uc.business.Name
	}

	var prompt bytes.Buffer
	if err := chatSystemPrompt.Execute(&prompt, map[string]any{
		"Business": name,
		"History":  history,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to render chat prompt")
	}

	session, err := uc.llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(prompt.String()))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(in.Text)})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}

	text := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if text == "" {
		return fallbackReply, nil
	}
	return text, nil
}
