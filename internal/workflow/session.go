package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/handiism/backdrop-downloader/internal/download"
	ioutils "github.com/handiism/backdrop-downloader/internal/io"
	"github.com/handiism/backdrop-downloader/internal/model"
)

// Catalog finds titles and their backdrops.
type Catalog interface {
	Search(ctx context.Context, query string) ([]model.Candidate, error)
	Backdrops(ctx context.Context, candidate model.Candidate, lang model.Language) ([]model.Backdrop, error)
	ImageURL(filePath string) string
}

// Retriever saves one image to disk.
type Retriever interface {
	Retrieve(ctx context.Context, req model.DownloadRequest, onProgress func(download.Progress)) (*download.Result, error)
}

// Options configures a Session.
type Options struct {
	// DownloadsPath is the directory backdrops are saved to.
	DownloadsPath string

	// LanguageMenu enables the language filter step. When false, a chosen
	// title lists all of its backdrops directly.
	LanguageMenu bool
}

// exitKeywords end the session from the query prompt.
var exitKeywords = map[string]bool{"exit": true, "quit": true}

type state int

const (
	stateAwaitingQuery state = iota
	stateShowingCandidates
	stateShowingLanguages
	stateShowingAssets
	stateAwaitingFileName
	stateDownloading
	stateExit
)

func (s state) String() string {
	switch s {
	case stateAwaitingQuery:
		return "awaiting-query"
	case stateShowingCandidates:
		return "showing-candidates"
	case stateShowingLanguages:
		return "showing-languages"
	case stateShowingAssets:
		return "showing-assets"
	case stateAwaitingFileName:
		return "awaiting-file-name"
	case stateDownloading:
		return "downloading"
	case stateExit:
		return "exit"
	default:
		return "unknown"
	}
}

// cursor is the session position. Handlers receive it by value and return
// the next one; nothing else carries state between steps.
type cursor struct {
	state state

	candidates []model.Candidate
	candidate  model.Candidate

	language  model.Language
	backdrops []model.Backdrop

	// choice is the 1-based number of the selected backdrop.
	choice  int
	request model.DownloadRequest
}

func (c cursor) to(s state) cursor {
	c.state = s
	return c
}

// Session runs the search, select, filter, select, download loop.
type Session struct {
	catalog   Catalog
	retriever Retriever
	prompter  Prompter
	opts      Options
	logger    *slog.Logger
}

// NewSession creates a Session.
func NewSession(catalog Catalog, retriever Retriever, prompter Prompter, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		catalog:   catalog,
		retriever: retriever,
		prompter:  prompter,
		opts:      opts,
		logger:    logger,
	}
}

// Run drives the session until the user exits. It returns nil for an exit
// command or closed input and ErrInterrupted when ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	cur := cursor{state: stateAwaitingQuery}

	for cur.state != stateExit {
		next, err := s.step(ctx, cur)
		switch {
		case err == nil:
		case errors.Is(err, ErrInputClosed):
			s.prompter.Show(LevelInfo, "Exiting.")
			return nil
		case ctx.Err() != nil:
			return ErrInterrupted
		default:
			return err
		}

		if next.state != cur.state {
			s.logger.DebugContext(ctx, "transition", "from", cur.state.String(), "to", next.state.String())
		}
		cur = next
	}

	s.prompter.Show(LevelInfo, "Exiting.")
	return nil
}

func (s *Session) step(ctx context.Context, cur cursor) (cursor, error) {
	switch cur.state {
	case stateAwaitingQuery:
		return s.awaitQuery(ctx, cur)
	case stateShowingCandidates:
		return s.showCandidates(ctx, cur)
	case stateShowingLanguages:
		return s.showLanguages(ctx, cur)
	case stateShowingAssets:
		return s.showAssets(ctx, cur)
	case stateAwaitingFileName:
		return s.awaitFileName(ctx, cur)
	case stateDownloading:
		return s.downloadChosen(ctx, cur)
	default:
		return cur, fmt.Errorf("unknown state %d", cur.state)
	}
}

func (s *Session) ask(ctx context.Context, question string) (string, error) {
	answer, err := s.prompter.Ask(ctx, question)
	if err != nil {
		if ctx.Err() != nil {
			return "", ErrInterrupted
		}
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// menuChoice parses a menu answer. The bool is false for anything that is
// not a number in [lo, hi]; an error message has already been shown.
func (s *Session) menuChoice(answer string, lo, hi int) (int, bool) {
	n, err := strconv.Atoi(answer)
	if err != nil {
		s.prompter.Show(LevelError, "Invalid input. Please enter a number.")
		return 0, false
	}
	if n < lo || n > hi {
		s.prompter.Show(LevelError, "Invalid selection.")
		return 0, false
	}
	return n, true
}

func (s *Session) awaitQuery(ctx context.Context, cur cursor) (cursor, error) {
	query, err := s.ask(ctx, "Enter the name of the TV show or movie (enter 'exit' to quit): ")
	if err != nil {
		return cur, err
	}

	if exitKeywords[strings.ToLower(query)] {
		return cur.to(stateExit), nil
	}
	if query == "" {
		s.prompter.Show(LevelWarning, "Please enter a title to search for.")
		return cur, nil
	}

	candidates, err := s.catalog.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return cur, ErrInterrupted
		}
		s.prompter.Show(LevelError, fmt.Sprintf("Error searching media: %v", err))
		return cur, nil
	}
	if len(candidates) == 0 {
		s.prompter.Show(LevelWarning, "No media found.")
		return cur, nil
	}

	next := cursor{state: stateShowingCandidates, candidates: candidates}
	return next, nil
}

func (s *Session) showCandidates(ctx context.Context, cur cursor) (cursor, error) {
	n := len(cur.candidates)
	searchAgain, exit := n+1, n+2

	s.prompter.Show(LevelHeading, "Search Results:")
	for i, c := range cur.candidates {
		s.prompter.Show(LevelPlain, fmt.Sprintf("%d. %s", i+1, c.Label()))
	}
	s.prompter.Show(LevelPlain, fmt.Sprintf("%d. Search for another TV show or movie", searchAgain))
	s.prompter.Show(LevelPlain, fmt.Sprintf("%d. Exit", exit))

	answer, err := s.ask(ctx, fmt.Sprintf("Select a media by number (1-%d): ", exit))
	if err != nil {
		return cur, err
	}
	choice, ok := s.menuChoice(answer, 1, exit)
	if !ok {
		return cur, nil
	}

	switch choice {
	case exit:
		return cur.to(stateExit), nil
	case searchAgain:
		return cursor{state: stateAwaitingQuery}, nil
	}

	cur.candidate = cur.candidates[choice-1]
	cur.language = model.LanguageNone
	cur.backdrops = nil

	if s.opts.LanguageMenu {
		return cur.to(stateShowingLanguages), nil
	}
	return s.loadBackdrops(ctx, cur, stateShowingCandidates)
}

func (s *Session) showLanguages(ctx context.Context, cur cursor) (cursor, error) {
	n := len(model.MenuLanguages)
	back, exit := n+1, n+2

	s.prompter.Show(LevelHeading, "Select a language for backdrops:")
	for i, lang := range model.MenuLanguages {
		s.prompter.Show(LevelPlain, fmt.Sprintf("%d. %s", i+1, lang.DisplayName()))
	}
	s.prompter.Show(LevelPlain, fmt.Sprintf("%d. Go back to media selection", back))
	s.prompter.Show(LevelPlain, fmt.Sprintf("%d. Exit", exit))

	answer, err := s.ask(ctx, fmt.Sprintf("Enter language choice (1-%d): ", exit))
	if err != nil {
		return cur, err
	}
	choice, ok := s.menuChoice(answer, 1, exit)
	if !ok {
		return cur, nil
	}

	switch choice {
	case exit:
		return cur.to(stateExit), nil
	case back:
		return cur.to(stateShowingCandidates), nil
	}

	cur.language = model.MenuLanguages[choice-1]
	return s.loadBackdrops(ctx, cur, stateShowingLanguages)
}

// loadBackdrops fetches the backdrops for the cursor's candidate and
// language. On failure or an empty list it reports the problem and returns
// the cursor in the retry state.
func (s *Session) loadBackdrops(ctx context.Context, cur cursor, retry state) (cursor, error) {
	backdrops, err := s.catalog.Backdrops(ctx, cur.candidate, cur.language)
	if err != nil {
		if ctx.Err() != nil {
			return cur, ErrInterrupted
		}
		s.prompter.Show(LevelError, fmt.Sprintf("Error getting backdrops: %v", err))
		return cur.to(retry), nil
	}
	if len(backdrops) == 0 {
		s.prompter.Show(LevelWarning, noBackdropsMessage(cur.language))
		return cur.to(retry), nil
	}

	cur.backdrops = backdrops
	return cur.to(stateShowingAssets), nil
}

func noBackdropsMessage(lang model.Language) string {
	if lang == model.LanguageNone {
		return "No backdrops found."
	}
	return fmt.Sprintf("No backdrops found for %s.", lang.DisplayName())
}

// assetsBack is where "0" leads from the backdrop list.
func (s *Session) assetsBack() state {
	if s.opts.LanguageMenu {
		return stateShowingLanguages
	}
	return stateShowingCandidates
}

func (s *Session) showAssets(ctx context.Context, cur cursor) (cursor, error) {
	if len(cur.backdrops) == 0 {
		s.prompter.Show(LevelWarning, noBackdropsMessage(cur.language))
		return cur.to(s.assetsBack()), nil
	}

	s.prompter.Show(LevelHeading, "Available Backdrops:")
	for i, b := range cur.backdrops {
		s.prompter.Show(LevelPlain, fmt.Sprintf("%d. %dx%d [%s] %s",
			i+1, b.Width, b.Height, b.LanguageLabel(), s.catalog.ImageURL(b.FilePath)))
	}

	answer, err := s.ask(ctx, "Select a backdrop by number to download (enter '0' to go back): ")
	if err != nil {
		return cur, err
	}
	choice, ok := s.menuChoice(answer, 0, len(cur.backdrops))
	if !ok {
		return cur, nil
	}
	if choice == 0 {
		return cur.to(s.assetsBack()), nil
	}

	cur.choice = choice
	return cur.to(stateAwaitingFileName), nil
}

func (s *Session) awaitFileName(ctx context.Context, cur cursor) (cursor, error) {
	answer, err := s.ask(ctx, fmt.Sprintf("Enter the file name for %s (leave blank for default): ", cur.candidate.Title))
	if err != nil {
		return cur, err
	}

	backdrop := cur.backdrops[cur.choice-1]
	fileName := ioutils.ResolveFileName(answer, ioutils.DefaultFileName(cur.candidate.Title, cur.choice))
	cur.request = model.NewDownloadRequest(s.opts.DownloadsPath, fileName, s.catalog.ImageURL(backdrop.FilePath))
	return cur.to(stateDownloading), nil
}

func (s *Session) downloadChosen(ctx context.Context, cur cursor) (cursor, error) {
	req := cur.request
	cur.request = model.DownloadRequest{}

	s.prompter.Show(LevelInfo, fmt.Sprintf("Downloading %s", req.URL))
	res, err := s.retriever.Retrieve(ctx, req, s.prompter.Progress)
	if err != nil {
		if ctx.Err() != nil {
			return cur, ErrInterrupted
		}
		s.prompter.Show(LevelError, fmt.Sprintf("Error downloading image: %v", err))
		return cur.to(stateShowingAssets), nil
	}

	msg := fmt.Sprintf("Image downloaded: %s", res.Path)
	if res.Width > 0 && res.Height > 0 {
		msg += fmt.Sprintf(" (%dx%d)", res.Width, res.Height)
	}
	s.prompter.Show(LevelSuccess, msg)
	if res.ResizeErr != nil {
		s.prompter.Show(LevelWarning, fmt.Sprintf("Saved %s without resizing: %v", res.Path, res.ResizeErr))
	}
	return cur.to(stateShowingAssets), nil
}
