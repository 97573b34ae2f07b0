package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"BlockJack/config"
	"BlockJack/internal/client"
	"BlockJack/internal/discovery"
	"BlockJack/internal/protocol"
	"BlockJack/internal/utils"

	"github.com/pterm/pterm"
)

func main() {
	if err := config.Load(os.Getenv("BJ_CONFIG")); err != nil {
		utils.Error.Fatalf("Config load failed: %v", err)
	}
	logger := utils.Init(config.C.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rounds := askRounds()
	pterm.Info.Printfln("Team %s will play %d rounds per session", config.C.Client.Team, rounds)

	offerAddr := ":" + strconv.Itoa(config.C.Client.OfferPort)
	offerLog := logger.WithPrefix("offer")

	player := client.NewPlayer(config.C.Client.Team, nil, logger)
	player.OnRound = printRound

	for {
		pterm.Info.Println("Client started, listening for offer requests...")
		// 每轮重新绑定，session 期间积压的 Offer 随旧 socket 一起丢弃
		entry, err := discovery.WaitOffer(ctx, offerAddr, offerLog)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("waiting for offer", "port", config.C.Client.OfferPort, "err", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}
		pterm.Info.Printfln("Received offer from %s (%q), attempting to connect...", entry.IP, entry.Offer.ServerName)

		if err := session(ctx, player, entry.Addr(), rounds); err != nil {
			if ctx.Err() != nil {
				return
			}
			pterm.Error.Printfln("Session with %s failed: %v", entry.Addr(), err)
		}
	}
}

func session(ctx context.Context, p *client.Player, addr string, rounds uint8) error {
	conn, err := client.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	stats, err := p.Play(ctx, conn, rounds)
	printStats(stats)
	return err
}

// askRounds 配置里 rounds>0 时不再询问
func askRounds() uint8 {
	if config.C.Client.Rounds > 0 {
		return uint8(config.C.Client.Rounds)
	}
	in, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("How many rounds do you want to play?").
		WithDefaultValue(strconv.Itoa(client.DefaultRounds)).
		Show()
	n, err := client.ParseRounds(in)
	if err != nil {
		pterm.Warning.Printfln("%v, playing %d rounds", err, client.DefaultRounds)
		return client.DefaultRounds
	}
	return n
}

func printRound(rl client.RoundLog) {
	res := rl.Result.String()
	switch rl.Result {
	case protocol.Win:
		res = pterm.LightGreen(res)
	case protocol.Loss:
		res = pterm.LightRed(res)
	default:
		res = pterm.LightYellow(res)
	}
	pterm.Printfln("Round %d: you %s (%d) vs dealer %s (%d) -> %s",
		rl.Round, rl.Player, rl.Player.Total(), rl.Dealer, rl.Dealer.Total(), res)
}

func printStats(s client.Stats) {
	body := fmt.Sprintf("Finished playing %d rounds, win rate: %.2f\nwins %d  ties %d  losses %d",
		s.Rounds, s.WinRate(), s.Wins, s.Ties, s.Losses)
	pterm.DefaultBox.WithTitle(pterm.LightGreen("|SESSION|")).WithTitleTopCenter().Println(body)
}
