// Command dingbot sends one message through the robot webhook and exits 0
// when it was delivered.
//
// Credentials come from DINGDING_ACCESS_TOKEN and DINGDING_SECRET, or from a
// .env file in the working directory. Without flags it sends "dingbot test".
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	commonsConfig "dingbot/commons/config"
	"dingbot/internal/config"
	"dingbot/internal/dingbot"
	"dingbot/internal/logger"
)

const defaultText = "dingbot test"

var errUsage = errors.New("invalid arguments")

type app struct {
	text     string
	title    string
	markdown string
	picture  string
	caption  string
	atAll    bool
}

func (a *app) flags(fs *flag.FlagSet) {
	fs.StringVar(&a.text, "text", "", "Send a text message with this content.")
	fs.StringVar(&a.title, "title", "", "Title of the markdown message.")
	fs.StringVar(&a.markdown, "markdown", "", "Send a markdown message with this body. Requires -title.")
	fs.StringVar(&a.picture, "picture", "", "Send the image at this URL.")
	fs.StringVar(&a.caption, "caption", "", "Caption shown under the -picture image.")
	fs.BoolVar(&a.atAll, "at-all", false, "Mention everyone in the group.")
}

func (a *app) message() (dingbot.Message, error) {
	set := 0
	for _, v := range []string{a.text, a.markdown, a.picture} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("%w: -text, -markdown and -picture are mutually exclusive", errUsage)
	}

	at := dingbot.At{All: a.atAll}
	switch {
	case a.picture != "":
		return dingbot.Picture{URL: a.picture, Caption: a.caption, At: at}, nil
	case a.markdown != "":
		if a.title == "" {
			return nil, fmt.Errorf("%w: -markdown requires -title", errUsage)
		}
		return dingbot.Markdown{Title: a.title, Text: a.markdown, At: at}, nil
	case a.text != "":
		return dingbot.Text{Content: a.text, At: at}, nil
	default:
		return dingbot.Text{Content: defaultText, At: at}, nil
	}
}

type senderFactory func(cfg config.Config, log logger.Logger) dingbot.Sender

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, commonsConfig.ProvideSender)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, newSender senderFactory) int {
	var a app
	fs := flag.NewFlagSet("dingbot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	a.flags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "dingbot: %v: unexpected argument %q\n", errUsage, fs.Arg(0))
		return 2
	}

	msg, err := a.message()
	if err != nil {
		fmt.Fprintf(stderr, "dingbot: %v\n", err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "dingbot: %v\n", err)
		return 1
	}

	log, err := logger.NewForEnv(cfg.Env)
	if err != nil {
		fmt.Fprintf(stderr, "dingbot: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	result, err := newSender(cfg, log).Send(ctx, msg)
	if err != nil {
		fmt.Fprintf(stderr, "dingbot: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "http_status=%d errcode=%d errmsg=%q\n", result.HTTPStatus, result.ErrCode, result.ErrMessage)
	if !result.Succeeded() {
		return 1
	}
	return 0
}
