package tracker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"siplog/internal/entity/user"
	"siplog/internal/logger"
	"siplog/internal/model/aggregate"
	"siplog/internal/model/customerr"
	"siplog/internal/model/export"
	"siplog/internal/model/session"
)

const (
	helloMessage           = "Hello! I am SipLog 🍺 Find yourself with /find <id>"
	dontUnderstandMessage  = "I don't understand you :("
	okMessage              = "Gotcha!"
	selectUserFirstMessage = "Select a user first with /find or /user"

	incorrectUsageMessage   = "That is an incorrect command usage"
	incorrectAmountMessage  = "Your amount is incorrect"
	incorrectMinutesMessage = "Waiting minutes should be a positive whole number"
	fixedWaitMessage        = "The waiting time is fixed in this setup"
	cannotReadMessage       = "Can't read your records atm. Try later"
	cannotSaveMessage       = "Can't save your records atm. Try later"
	cannotExportMessage     = "Can't export atm. Try later"
	corruptedStoreMessage   = "Your saved records could not be read and were reset"
)

const (
	startCommand     = "/start"
	findCommand      = "/find"
	userCommand      = "/user"
	newCommand       = "/new"
	addCommand       = "/add"
	statsCommand     = "/stats"
	waitCommand      = "/wait"
	exportCommand    = "/export"
	exportAllCommand = "/exportall"
)

const (
	exportUserOption = "user"
	exportAllOption  = "all"
	allUsersID       = export.AllUsers
)

const recentWindowHours = 24

type trackerStorage interface {
	WaitingMinutes() (int, error)
	SetWaitingMinutes(minutes int) error
}

// ReportCache keeps rendered export documents between requests; entries are
// invalidated whenever a user's record list changes.
type ReportCache interface {
	CacheReport(userID, option, report string) error
	GetReport(userID, option string) (string, error)
	InvalidateCache(userID string, options []string) error
}

type fileSaver interface {
	SaveFile(name, content string) error
}

type config interface {
	AmountPrecision() int
	ConfigurableWait() bool
}

type handler func(arg string) (string, error)

type handlerMap map[string]handler

// HandlerService routes one command at a time against the store. It holds the
// single selected user of the local session.
type HandlerService struct {
	handlersMap handlerMap

	session  *session.Service
	exporter *export.Exporter
	storage  trackerStorage
	cache    ReportCache
	saver    fileSaver

	precision        int
	configurableWait bool

	currentUser string
}

func newHandler(
	sessionSvc *session.Service,
	exporter *export.Exporter,
	storage trackerStorage,
	cache ReportCache,
	saver fileSaver,
	cfg config,
) *HandlerService {
	res := &HandlerService{
		handlersMap:      nil,
		session:          sessionSvc,
		exporter:         exporter,
		storage:          storage,
		cache:            cache,
		saver:            saver,
		precision:        cfg.AmountPrecision(),
		configurableWait: cfg.ConfigurableWait(),
	}
	res.handlersMap = newMap(res)
	return res
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[findCommand] = s.handleFind
	m[userCommand] = s.handleSelect
	m[newCommand] = s.handleNew
	m[addCommand] = s.handleAdd
	m[statsCommand] = s.handleStats
	m[waitCommand] = s.handleWait
	m[exportCommand] = s.handleExport
	m[exportAllCommand] = s.handleExportAll

	m[""] = s.handleNoCommand

	return m
}

func (s *HandlerService) HandleCommand(text string) (string, error) {
	cmd, arg := parseCommand(text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(arg)
	}
	return dontUnderstandMessage, nil
}

func (s *HandlerService) handleStart(_ string) (string, error) {
	return helloMessage, nil
}

// handleFind is the search box: an exact hit selects the user, otherwise it
// offers case-insensitive substring suggestions, otherwise it prompts to
// create the ID.
func (s *HandlerService) handleFind(arg string) (string, error) {
	if arg == "" {
		return incorrectUsageMessage, nil
	}
	now := time.Now()

	records, found, err := s.session.Lookup(arg)
	if err != nil {
		return s.describeLoadError(err)
	}
	if found {
		s.currentUser = arg
		return s.statsText(records, now)
	}

	suggestions, err := s.session.Suggest(arg)
	if err != nil {
		return s.describeLoadError(err)
	}
	if len(suggestions) > 0 {
		res := make([]string, 0, len(suggestions)+1)
		res = append(res, "Did you mean:")
		for _, id := range suggestions {
			res = append(res, "- "+id)
		}
		return strings.Join(res, "\n"), nil
	}
	return fmt.Sprintf("No user named %q yet. Create one with %s %s", arg, newCommand, arg), nil
}

func (s *HandlerService) handleSelect(arg string) (string, error) {
	if arg == "" {
		return incorrectUsageMessage, nil
	}
	now := time.Now()

	records, found, err := s.session.Lookup(arg)
	if err != nil {
		return s.describeLoadError(err)
	}
	if !found {
		return fmt.Sprintf("No user named %q yet. Create one with %s %s", arg, newCommand, arg), nil
	}
	s.currentUser = arg
	return s.statsText(records, now)
}

func (s *HandlerService) handleNew(arg string) (string, error) {
	if arg == "" {
		return incorrectUsageMessage, nil
	}

	records, err := s.session.Create(arg)
	if err != nil {
		var invalid *customerr.InvalidInputError
		if errors.As(err, &invalid) {
			return incorrectUsageMessage, nil
		}
		return cannotSaveMessage, err
	}
	s.currentUser = arg
	s.invalidateExports(arg)

	if len(records) > 0 {
		return fmt.Sprintf("Welcome back, %s!", arg), nil
	}
	return fmt.Sprintf("%s Created user %s", okMessage, arg), nil
}

func (s *HandlerService) handleAdd(arg string) (string, error) {
	if s.currentUser == "" {
		return selectUserFirstMessage, nil
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		// Invalid input stays a no-op, only the reply tells the user.
		return incorrectAmountMessage, nil
	}
	now := time.Now()

	_, err = s.session.Append(s.currentUser, amount, now)
	if err != nil {
		var invalid *customerr.InvalidInputError
		if errors.As(err, &invalid) {
			return incorrectAmountMessage, nil
		}
		return cannotSaveMessage, err
	}
	s.invalidateExports(s.currentUser)

	records, _, err := s.session.Lookup(s.currentUser)
	if err != nil {
		return okMessage, nil
	}
	stats, err := s.statsText(records, now)
	if err != nil {
		return okMessage, nil
	}
	return okMessage + "\n" + stats, nil
}

func (s *HandlerService) handleStats(_ string) (string, error) {
	if s.currentUser == "" {
		return selectUserFirstMessage, nil
	}
	now := time.Now()

	records, found, err := s.session.Lookup(s.currentUser)
	if err != nil {
		return s.describeLoadError(err)
	}
	if !found {
		return selectUserFirstMessage, nil
	}
	return s.statsText(records, now)
}

func (s *HandlerService) handleWait(arg string) (string, error) {
	if !s.configurableWait {
		return fixedWaitMessage, nil
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || minutes <= 0 {
		return incorrectMinutesMessage, nil
	}
	if err = s.storage.SetWaitingMinutes(minutes); err != nil {
		return cannotSaveMessage, err
	}
	return okMessage, nil
}

func (s *HandlerService) handleExport(_ string) (string, error) {
	if s.currentUser == "" {
		return selectUserFirstMessage, nil
	}
	now := time.Now()

	content, err := s.cache.GetReport(s.currentUser, exportUserOption)
	if err != nil {
		file, exportErr := s.exporter.ExportUser(s.currentUser, now)
		if exportErr != nil {
			return cannotExportMessage, exportErr
		}
		content = file.Content
		s.cacheExport(s.currentUser, exportUserOption, content)
	}

	name := export.FileName(s.currentUser, now)
	if err = s.saver.SaveFile(name, content); err != nil {
		return cannotExportMessage, err
	}
	return "Saved " + name, nil
}

func (s *HandlerService) handleExportAll(_ string) (string, error) {
	now := time.Now()

	content, err := s.cache.GetReport(allUsersID, exportAllOption)
	if err != nil {
		file, exportErr := s.exporter.ExportAll(now)
		if exportErr != nil {
			return cannotExportMessage, exportErr
		}
		content = file.Content
		s.cacheExport(allUsersID, exportAllOption, content)
	}

	name := export.FileName(allUsersID, now)
	if err = s.saver.SaveFile(name, content); err != nil {
		return cannotExportMessage, err
	}
	return "Saved " + name, nil
}

func (s *HandlerService) handleNoCommand(_ string) (string, error) {
	return dontUnderstandMessage, nil
}

// statsText renders the derived values for one user in one pass, all against
// the same "now".
func (s *HandlerService) statsText(records []user.Record, now time.Time) (string, error) {
	waitingMinutes, err := s.storage.WaitingMinutes()
	if err != nil {
		return cannotReadMessage, err
	}

	res := make([]string, 0, 6)
	res = append(res, fmt.Sprintf("User: %s", s.currentUser))
	res = append(res, fmt.Sprintf("Total: %s ml", s.formatAmount(aggregate.Total(records))))
	res = append(res, fmt.Sprintf("Last %d hours: %s ml",
		recentWindowHours, s.formatAmount(aggregate.Recent(records, recentWindowHours, now))))
	res = append(res, fmt.Sprintf("Today: %s ml", s.formatAmount(aggregate.Today(records, now))))

	minutes, ok := aggregate.MinutesSinceLast(records, now)
	if !ok {
		res = append(res, "No entries yet")
		return strings.Join(res, "\n"), nil
	}
	res = append(res, fmt.Sprintf("Last entry: %d min ago", minutes))

	if aggregate.WaitActive(records, waitingMinutes, now) {
		last := records[len(records)-1].Created
		remaining := aggregate.WaitRemaining(last, waitingMinutes, now)
		res = append(res, fmt.Sprintf("Wait %d more minutes before your next one", remaining))
	}
	return strings.Join(res, "\n"), nil
}

func (s *HandlerService) formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', s.precision, 64)
}

// describeLoadError keeps a corrupted store survivable: the user gets a
// warning and an empty state instead of a crash.
func (s *HandlerService) describeLoadError(err error) (string, error) {
	var corrupted *customerr.CorruptedStoreError
	if errors.As(err, &corrupted) {
		logger.Warn("users document is corrupted, continuing with empty mapping")
		return corruptedStoreMessage, nil
	}
	return cannotReadMessage, err
}

func (s *HandlerService) invalidateExports(userID string) {
	if err := s.cache.InvalidateCache(userID, []string{exportUserOption}); err != nil {
		logger.Warn("cannot invalidate export cache")
	}
	if err := s.cache.InvalidateCache(allUsersID, []string{exportAllOption}); err != nil {
		logger.Warn("cannot invalidate export cache")
	}
}

func (s *HandlerService) cacheExport(userID, option, content string) {
	if err := s.cache.CacheReport(userID, option, content); err != nil {
		logger.Warn("cannot cache export")
	}
}
