package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"optimeal/internal/clipper"
	"optimeal/internal/config"
	"optimeal/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API, the planning pipeline and the clipper.
type Bot struct {
	api      *tgbotapi.BotAPI
	planner  *planner.Planner
	clipper  *clipper.Clipper
	planRepo *planner.PlanRepository
	cfg      *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	p *planner.Planner,
	clip *clipper.Clipper,
	planRepo *planner.PlanRepository,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:      bot,
		planner:  p,
		clipper:  clip,
		planRepo: planRepo,
		cfg:      cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	if b.cfg.TelegramAllowUserID != 0 && update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	// URL means clipper mode, anything else is a planning request.
	if strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://") {
		b.handleClipperRequest(msg)
		return
	}

	b.handlePlannerRequest(msg)
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	if b.clipper == nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Recipe clipping is not configured."))
		return
	}

	statusText := "✂️ *Clipping recipe...*"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	r, err := b.clipper.ClipURL(context.Background(), msg.Text)
	var finalText string
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe imported!*\n\n*%s*\n%s\nEstimated cost per serving: %.2f", r.Name, r.Description, r.TotalCost)
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.send(edit)
}

func (b *Bot) handlePlannerRequest(msg *tgbotapi.Message) {
	statusText := "🧑‍🍳 *Thinking...* \n(Selecting recipes and pricing your groceries)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	log.Printf("Generating plan for request: %s", msg.Text)

	prefs := preferencesFromMessage(msg.Text)
	plan, err := b.planner.GeneratePlan(prefs, true)
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText := fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr)
		edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
		edit.ParseMode = "Markdown"
		b.send(edit)
		return
	}

	if b.planRepo != nil {
		userID := fmt.Sprintf("%d", msg.From.ID)
		if data, err := json.Marshal(plan); err == nil {
			if err := b.planRepo.Save(context.Background(), userID, data); err != nil {
				log.Printf("Warning: failed to save meal plan for user %s: %v", userID, err)
			}
		}
	}

	planText, groceryText := formatPlanMarkdownParts(plan)

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, planText)
	edit.ParseMode = "Markdown"
	b.send(edit)

	groceryMsg := tgbotapi.NewMessage(msg.Chat.ID, groceryText)
	groceryMsg.ParseMode = "Markdown"
	b.send(groceryMsg)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Failed to send telegram message: %v", err)
	}
}

var budgetPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

const defaultWeeklyBudget = 100

// preferencesFromMessage reads a weekly budget out of a free-text request
// ("plan for 120", "€80 this week"). Anything else falls back to the default
// budget with default constraints.
func preferencesFromMessage(text string) planner.Preferences {
	prefs := planner.Preferences{
		WeeklyBudget:      defaultWeeklyBudget,
		MaxRepeatsPerWeek: 10,
	}
	if m := budgetPattern.FindString(text); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil && v > 0 {
			prefs.WeeklyBudget = v
		}
	}
	if strings.Contains(strings.ToLower(text), "vegetarian") {
		prefs.DietaryRestrictions = append(prefs.DietaryRestrictions, "vegetarian")
	}
	if strings.Contains(strings.ToLower(text), "vegan") {
		prefs.DietaryRestrictions = append(prefs.DietaryRestrictions, "vegan")
	}
	return prefs
}

func formatPlanMarkdownParts(plan *planner.MealPlan) (string, string) {
	var pb strings.Builder
	pb.WriteString("📅 *Weekly Meal Plan*\n")
	pb.WriteString(fmt.Sprintf("_Week of %s_\n\n", plan.WeekStart.Format("2006-01-02")))

	for _, day := range plan.Days {
		pb.WriteString(fmt.Sprintf("*%s*\n", day.Day))
		for _, meal := range day.Meals {
			if meal.Recipe == nil {
				continue
			}
			pb.WriteString(fmt.Sprintf("• %s: %s\n", meal.Type, meal.Recipe.Name))
		}
		pb.WriteString("\n")
	}
	if plan.RelaxedNutrition {
		pb.WriteString("_Nutrition targets were relaxed to find a feasible plan._\n")
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	if plan.Grocery != nil {
		if plan.Grocery.SelectedStore != nil {
			sb.WriteString(fmt.Sprintf("Store: *%s*\n\n", plan.Grocery.SelectedStore.Name))
		}
		for _, items := range plan.Grocery.ItemsByStore {
			for _, item := range items {
				sb.WriteString(fmt.Sprintf("• %s: %.0f %s (%.2f)\n", item.Name, item.Quantity, item.Unit, item.TotalPrice))
			}
		}
		sb.WriteString(fmt.Sprintf("\n*Total: %.2f*\n", plan.Grocery.TotalCost))
		for _, w := range plan.Grocery.Warnings {
			sb.WriteString(fmt.Sprintf("⚠️ %s\n", w.Message))
		}
	}

	return pb.String(), sb.String()
}
