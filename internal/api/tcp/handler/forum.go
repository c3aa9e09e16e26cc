package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dtroode/qaforum-server/internal/api/tcp/protocol"
	"github.com/dtroode/qaforum-server/internal/api/tcp/session"
	"github.com/dtroode/qaforum-server/internal/model"
)

const noAnswers = "No answers yet"

func (d *Dispatcher) register(ctx context.Context, _ *session.State, args []string) protocol.Response {
	username, password := args[0], args[1]
	if !validUsername(username) || password == "" || len(password) > model.MaxTextLength {
		return handleError(protocol.CommandRegister, model.ErrMalformedRequest)
	}

	if err := d.users.Register(ctx, username, password); err != nil {
		d.logFailure(protocol.CommandRegister, err)
		return handleError(protocol.CommandRegister, err)
	}

	return protocol.OK("Registration successful")
}

func (d *Dispatcher) login(ctx context.Context, state *session.State, args []string) protocol.Response {
	username, password := args[0], args[1]
	if !validUsername(username) || password == "" {
		return handleError(protocol.CommandLogin, model.ErrMalformedRequest)
	}

	user, err := d.users.Authenticate(ctx, username, password)
	if err != nil {
		d.logFailure(protocol.CommandLogin, err)
		return handleError(protocol.CommandLogin, err)
	}

	state.Login(user.Username)

	return protocol.OK(protocol.Join(user.Username, strconv.Itoa(user.Credits)))
}

func (d *Dispatcher) logout(_ context.Context, state *session.State, _ []string) protocol.Response {
	state.Logout()
	return protocol.OK("Logged out")
}

func (d *Dispatcher) post(ctx context.Context, state *session.State, args []string) protocol.Response {
	text := args[0]
	if !validText(text) {
		return handleError(protocol.CommandPost, model.ErrMalformedRequest)
	}

	author, _ := state.Username()
	if _, err := d.questions.Post(ctx, author, text); err != nil {
		d.logFailure(protocol.CommandPost, err)
		return handleError(protocol.CommandPost, err)
	}

	return protocol.OK(fmt.Sprintf("Question posted (+%d credits)", model.PostReward))
}

func (d *Dispatcher) answer(ctx context.Context, state *session.State, args []string) protocol.Response {
	index, err := parseInt(args[0])
	if err != nil || !validText(args[1]) {
		return handleError(protocol.CommandAnswer, model.ErrMalformedRequest)
	}

	author, _ := state.Username()
	if _, err := d.questions.Answer(ctx, index, author, args[1]); err != nil {
		d.logFailure(protocol.CommandAnswer, err)
		return handleError(protocol.CommandAnswer, err)
	}

	return protocol.OK(fmt.Sprintf("Answer added (+%d credits)", model.AnswerReward))
}

// list emits "idx|text|author|count;" per question, dropping whole entries
// that would not fit into a single message.
func (d *Dispatcher) list(ctx context.Context, _ *session.State, _ []string) protocol.Response {
	budget := d.opts.MaxMessageSize - len(protocol.OK("").String())

	var b strings.Builder
	for _, q := range d.questions.List(ctx) {
		entry := protocol.Join(strconv.Itoa(q.Index), q.Text, q.Author, strconv.Itoa(q.AnswerCount)) + protocol.ListSeparator
		if b.Len()+len(entry) > budget {
			d.logger.Debug("Forum handler: question list truncated", "index", q.Index)
			break
		}
		b.WriteString(entry)
	}

	return protocol.OK(b.String())
}

func (d *Dispatcher) search(ctx context.Context, _ *session.State, args []string) protocol.Response {
	keyword := args[0]
	if keyword == "" || len(keyword) > model.MaxTextLength {
		return handleError(protocol.CommandSearch, model.ErrMalformedRequest)
	}

	res, err := d.questions.Search(ctx, keyword)
	if err != nil {
		d.logFailure(protocol.CommandSearch, err)
		return handleError(protocol.CommandSearch, err)
	}

	if len(res.Answers) == 0 {
		return protocol.OK(protocol.Join(res.Question, noAnswers))
	}

	budget := d.opts.MaxMessageSize - len(protocol.OK(protocol.Join(res.Question, "")).String())
	answers := make([]string, 0, len(res.Answers))
	size := 0
	for _, a := range res.Answers {
		n := len(a)
		if len(answers) > 0 {
			n += len(protocol.ListSeparator)
		}
		if size+n > budget {
			break
		}
		size += n
		answers = append(answers, a)
	}

	return protocol.OK(protocol.Join(res.Question, strings.Join(answers, protocol.ListSeparator)))
}

func (d *Dispatcher) rate(ctx context.Context, state *session.State, args []string) protocol.Response {
	nums := make([]int, len(args))
	for i, arg := range args {
		n, err := parseInt(arg)
		if err != nil {
			return handleError(protocol.CommandRate, err)
		}
		nums[i] = n
	}

	rater, _ := state.Username()
	if err := d.questions.Rate(ctx, nums[0], nums[1], rater, nums[2]); err != nil {
		d.logFailure(protocol.CommandRate, err)
		return handleError(protocol.CommandRate, err)
	}

	return protocol.OK("Answer rated")
}

func (d *Dispatcher) leader(ctx context.Context, _ *session.State, _ []string) protocol.Response {
	var b strings.Builder
	b.WriteString("\n--- Leaderboard ---\n")
	fmt.Fprintf(&b, "%-5s %-20s %-6s\n", "Rank", "Username", "Score")

	for _, e := range d.users.TopByScore(ctx, d.opts.LeaderboardSize) {
		fmt.Fprintf(&b, "%-5d %-20s %-6d\n", e.Rank, e.Username, e.Score)
	}

	return protocol.OK(b.String())
}

func (d *Dispatcher) logFailure(command string, err error) {
	if resp := handleError(command, err); resp.Payload == internalError {
		d.logger.Error("Forum handler: command failed",
			"command", command,
			"error", err.Error())
		return
	}

	d.logger.Debug("Forum handler: command rejected",
		"command", command,
		"error", err.Error())
}
