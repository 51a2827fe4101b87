package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/companionkit/mira/internal/chat"
	"github.com/companionkit/mira/internal/persona"
	"github.com/companionkit/mira/internal/shop"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the companion interactively on the terminal",
		Long: "Interactive terminal chat. Type a message and press Enter.\n" +
			"Commands: /loja lists the shop, /comprar <item> buys an item, /sair quits.",
		Run: runChat,
	}
	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx := cmd.Context()
	session, catalog, store, err := buildSession(ctx, cfg)
	if err != nil {
		exitErr("build session", err)
	}
	defer store.Close()

	fmt.Printf("%s: %s\n", persona.Name, persona.Greeting)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("💰 %d > ", session.State().Balance)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/sair" || line == "/quit":
			return
		case line == "/loja":
			for _, item := range catalog {
				fmt.Printf("  %s — %d moedas\n", item.Name, item.Price)
			}
			continue
		case strings.HasPrefix(line, "/comprar "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "/comprar "))
			reply, err := session.Purchase(ctx, name)
			switch {
			case errors.Is(err, shop.ErrInsufficientFunds):
				fmt.Println("Você não tem moedas suficientes.")
			case errors.Is(err, chat.ErrUnknownItem):
				fmt.Printf("Item desconhecido: %s\n", name)
			case err != nil:
				exitErr("purchase", err)
			default:
				fmt.Printf("%s: %s\n", persona.Name, reply.Text)
			}
			continue
		}

		reply, err := session.Handle(ctx, line)
		if err != nil {
			exitErr("chat", err)
		}
		fmt.Printf("%s: %s\n", persona.Name, reply.Text)
		if reply.MediaKey != "" {
			fmt.Printf("  [media: %s]\n", reply.MediaKey)
		}

		if nudge, due := session.IdleNudge(time.Now()); due {
			fmt.Printf("%s: %s\n", persona.Name, nudge.Text)
		}
	}
}
