package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/chat"
	"github.com/lumenlearn/lumen/internal/llm"
	"github.com/lumenlearn/lumen/internal/store"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the study assistant one question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.TrimSpace(strings.Join(args, " "))
		if message == "" {
			return chat.ErrEmptyMessage
		}
		noSave, _ := cmd.Flags().GetBool("no-save")

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := openLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.EventRepo()
		provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), repo, log)
		if err != nil {
			return fmt.Errorf("llm provider: %w", err)
		}

		conv := chat.NewConversation(time.Now())
		conv.Add(chat.Message{Role: chat.RoleUser, Content: message, At: time.Now()})
		reply, origin, err := chat.NewAssistant(provider, log).Reply(ctx, conv)
		if err != nil {
			return err
		}

		if !noSave {
			for _, m := range []store.ChatEventData{
				{ConversationID: conv.ID, Role: string(chat.RoleUser), Content: message},
				{ConversationID: conv.ID, Role: string(chat.RoleAssistant), Content: reply, Origin: string(origin)},
			} {
				if err := repo.AppendChat(ctx, m); err != nil {
					return fmt.Errorf("save chat: %w", err)
				}
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	chatCmd.Flags().Bool("no-save", false, "Do not record the exchange in the history")
}
