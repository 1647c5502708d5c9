package main

import (
	"bufio"
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"shopassist/internal/config"
	"shopassist/internal/model"
	"shopassist/internal/scraper"
	"shopassist/internal/service"
	"shopassist/internal/session"
)

var chatLive bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant on stdin",
	Long: `Start an interactive chat. Each line is one message.
Commands: /stats, /export, /clear [scope], /pref key=value..., /quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatLive, "live", false, "search Jiji.com.gh instead of sample listings")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if maxQueryLength > 0 {
		cfg.Classifier.MaxQueryLength = maxQueryLength
	}
	logger := cliLogger(cmd.ErrOrStderr())

	var source service.ProductSource = scraper.SampleSource{}
	if chatLive {
		source = scraper.NewJijiClient(cfg.Scraper, logger)
	}

	assistant := service.NewAssistant(
		service.NewIntentClassifier(nil, cfg.Classifier.MaxQueryLength),
		service.NewProductSearcher(source, service.NewRanker(cfg.Ranking.WeightRelevance, cfg.Ranking.WeightPrice), cfg.Scraper.MaxResults, logger),
		cfg.Features,
		logger,
	)
	sess := session.New("", session.Limits{
		MaxChatMessages:  cfg.Session.MaxChatMessages,
		MaxSearchHistory: cfg.Session.MaxSearchHistory,
	})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🛍️ Shopping Assistant - type /quit to exit")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := chatCommand(cmd, sess, line)
			if err != nil {
				fmt.Fprintf(out, "⚠️ %v\n", err)
			}
			if quit {
				break
			}
			continue
		}

		resp, err := assistant.Respond(ctx, sess, line)
		if err != nil {
			return err
		}
		printResponse(cmd, resp)
	}

	fmt.Fprintln(out)
	return scanner.Err()
}

func chatCommand(cmd *cobra.Command, sess *session.Session, line string) (bool, error) {
	out := cmd.OutOrStdout()
	fields := strings.Fields(line)

	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/stats":
		return false, writeJSON(cmd, sess.Stats())
	case "/export":
		data, err := sess.ExportHistory()
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, string(data))
		return false, nil
	case "/pref":
		if len(fields) == 1 {
			return false, writeJSON(cmd, sess.UserContext())
		}
		prefs := make(map[string]string, len(fields)-1)
		for _, kv := range fields[1:] {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || key == "" {
				return false, fmt.Errorf("preference %q is not key=value", kv)
			}
			prefs[key] = value
		}
		sess.UpdatePreferences(prefs)
		fmt.Fprintln(out, "⚙️ Preferences saved")
		return false, nil
	case "/clear":
		scope := session.ScopeAll
		if len(fields) > 1 {
			scope = fields[1]
		}
		if err := sess.Clear(scope); err != nil {
			return false, err
		}
		fmt.Fprintln(out, "🗑️ Cleared")
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

func printResponse(cmd *cobra.Command, resp *model.ChatResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "[%s, confidence %d] %s\n\n", resp.Intent, resp.Confidence, resp.Explanation)
	fmt.Fprintln(out, resp.Message)
	for i, p := range resp.Products {
		fmt.Fprintf(out, "  %d. %s - %s (%s)\n", i+1, p.Title, p.Price, p.Location)
		if p.Link != "" {
			fmt.Fprintf(out, "     %s\n", p.Link)
		}
	}
	fmt.Fprintln(out)
}
