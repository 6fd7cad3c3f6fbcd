package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/landsalelk/landsalelk-sub005/internal/config"
	"github.com/landsalelk/landsalelk-sub005/internal/logger"
	"github.com/landsalelk/landsalelk-sub005/internal/model"
	"github.com/landsalelk/landsalelk-sub005/internal/service"
)

var (
	page       = flag.String("page", "", "Page the user is on, sent as context")
	title      = flag.String("title", "", "Property title the user is viewing, sent as context")
	models     = flag.String("models", "", "Comma-separated model list overriding AI_MODELS")
	showJSON   = flag.Bool("json", false, "Print the structured response")
	logLevel   = flag.String("log-level", "warn", "Log level")
	maxHistory = flag.Int("history", 0, "Turns of history to send (default AI_MAX_HISTORY)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *models != "" {
		var list []string
		for _, m := range strings.Split(*models, ",") {
			if m = strings.TrimSpace(m); m != "" {
				list = append(list, m)
			}
		}
		cfg.AI.Models = list
	}
	if *maxHistory > 0 {
		cfg.AI.MaxHistory = *maxHistory
	}

	log := logger.New(*logLevel, "console")
	defer func() { _ = log.Sync() }()

	client, err := service.NewCompletionClient(&cfg.AI, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	assistant := service.NewAssistant(client, service.NewIntentParser(log), log)

	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nShutting down...")
		cancel()
		os.Exit(0)
	}()

	pageContext := map[string]any{}
	if *page != "" {
		pageContext["page"] = *page
	}
	if *title != "" {
		pageContext["propertyTitle"] = *title
	}

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Println(boldGreen("LandSale.lk assistant"))
	fmt.Printf("Models: %s\n", boldCyan(strings.Join(client.Models(), ", ")))
	fmt.Println("Type your message and press Enter. Type 'exit' or press Ctrl+C to quit.")
	fmt.Println()

	var history []model.Message
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		userInput := strings.TrimSpace(scanner.Text())
		if userInput == "" {
			continue
		}
		if strings.ToLower(userInput) == "exit" {
			break
		}

		history = append(history, model.Message{Role: model.RoleUser, Content: userInput})
		if len(history) > cfg.AI.MaxHistory {
			history = history[len(history)-cfg.AI.MaxHistory:]
		}

		answer, err := assistant.Answer(ctx, history, pageContext)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Println(service.UnavailableReply)
			history = history[:len(history)-1]
			continue
		}

		fmt.Printf("%s %s\n", boldCyan("Assistant:"), answer.Response.ReplyText())
		fmt.Println(faint(fmt.Sprintf("[%s via %s in %s]", answer.Response.Intent(), answer.Model, answer.Took.Round(time.Millisecond))))
		if *showJSON && answer.Response.Intent() != model.IntentChat {
			if data, err := json.MarshalIndent(answer.Response, "", "  "); err == nil {
				fmt.Println(yellow(string(data)))
			}
		}
		fmt.Println()

		history = append(history, model.Message{Role: model.RoleAssistant, Content: answer.Response.ReplyText()})
	}
}
