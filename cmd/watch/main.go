package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/siddhu12980/SyncStream/internal/client/identity"
	"github.com/siddhu12980/SyncStream/internal/client/player"
	"github.com/siddhu12980/SyncStream/internal/client/session"
	"github.com/siddhu12980/SyncStream/internal/domain"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	serverURL = configVar[string]{
		envKey:       "WATCH_SERVER_URL",
		flagKey:      "server-url",
		defaultValue: "http://localhost:8000",
	}
	roomId = configVar[string]{
		envKey:       "WATCH_ROOM_ID",
		flagKey:      "room",
		defaultValue: "",
	}
	displayName = configVar[string]{
		envKey:       "WATCH_NAME",
		flagKey:      "name",
		defaultValue: "",
	}
	stateDir = configVar[string]{
		envKey:       "WATCH_STATE_DIR",
		flagKey:      "state-dir",
		defaultValue: "",
	}
	logLevel = configVar[string]{
		envKey:       "WATCH_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "WARN",
	}
)

type watchConfig struct {
	ServerURL string
	RoomId    string
	Name      string
	StateDir  string
	LogLevel  string
}

func loadWatchConfig() *watchConfig {
	pflag.String(serverURL.flagKey, serverURL.defaultValue, "Server base URL")
	pflag.String(roomId.flagKey, roomId.defaultValue, "Room id to join")
	pflag.String(displayName.flagKey, displayName.defaultValue, "Display name")
	pflag.String(stateDir.flagKey, stateDir.defaultValue, "Directory for persisted identity")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(serverURL.flagKey, serverURL.envKey)
	viper.BindEnv(roomId.flagKey, roomId.envKey)
	viper.BindEnv(displayName.flagKey, displayName.envKey)
	viper.BindEnv(stateDir.flagKey, stateDir.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)

	viper.SetDefault(serverURL.flagKey, serverURL.defaultValue)
	viper.SetDefault(roomId.flagKey, roomId.defaultValue)
	viper.SetDefault(displayName.flagKey, displayName.defaultValue)
	viper.SetDefault(stateDir.flagKey, stateDir.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)

	return &watchConfig{
		ServerURL: viper.GetString(serverURL.flagKey),
		RoomId:    viper.GetString(roomId.flagKey),
		Name:      viper.GetString(displayName.flagKey),
		StateDir:  viper.GetString(stateDir.flagKey),
		LogLevel:  viper.GetString(logLevel.flagKey),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".syncstream"
	}

	return filepath.Join(home, ".syncstream")
}

// fetchRoom reads the public room metadata the client needs before joining the
// channel: CreatedBy resolves the admin role, VideoKey/VideoType pick the player.
func fetchRoom(ctx context.Context, baseURL, roomId string) (*domain.Room, error) {
	url := fmt.Sprintf("%s/api/v1/public/room/%s", baseURL, roomId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("room lookup failed: %s", resp.Status)
	}

	var body struct {
		Data domain.Room `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return &body.Data, nil
}

// terminalNotifier prints connection notices to the terminal, playing the role
// toast notifications do in the web client.
type terminalNotifier struct{}

func (terminalNotifier) Notify(text string)      { fmt.Printf("* %s\n", text) }
func (terminalNotifier) NotifyError(text string) { fmt.Printf("! %s\n", text) }

func run(ctx context.Context, cfg *watchConfig, logger *slog.Logger) error {
	if cfg.RoomId == "" {
		return fmt.Errorf("room id is required, pass --room")
	}

	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir = defaultStateDir()
	}

	store := identity.NewFileStore(filepath.Join(stateDir, "identity.json"))
	if cfg.Name != "" {
		if err := store.Set("display_name", cfg.Name); err != nil {
			logger.Warn("failed to persist display name", "error", err)
		}
	}
	participant := identity.NewResolver(store, logger).Resolve(nil)

	found, err := fetchRoom(ctx, cfg.ServerURL, cfg.RoomId)
	if err != nil {
		return fmt.Errorf("failed to fetch room: %w", err)
	}
	participant = participant.ResolveRole(found.CreatedBy)

	wsURL := strings.Replace(cfg.ServerURL, "http", "ws", 1)

	sess, err := session.New(&session.Config{
		ServerURL:   wsURL,
		RoomId:      cfg.RoomId,
		Participant: participant,
		Player:      player.NewClock(),
		Notifier:    terminalNotifier{},
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	fmt.Printf("joining %q as %s", found.Name, participant.DisplayName)
	if participant.IsAdmin {
		fmt.Print(" (owner)")
	}
	fmt.Println()

	sess.Start(ctx)
	defer sess.Close()

	unsubscribe := sess.SubscribePlayback(func(msg domain.Message) {
		fmt.Printf("* %s at %.1fs\n", msg.Kind, msg.VideoTime)
	})
	defer unsubscribe()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
			case "/play":
				sess.LocalPlay()
			case "/pause":
				sess.LocalPause()
			case "/fwd":
				sess.LocalSeekForward()
			case "/back":
				sess.LocalSeekBack()
			case "/log":
				for _, entry := range sess.Transcript().Entries() {
					fmt.Printf("%s %s: %s\n", entry.Timestamp.Format(time.Kitchen), entry.UserName, entry.Text)
				}
			default:
				if err := sess.SendChat(line); err != nil {
					logger.Warn("failed to send chat", "error", err)
				}
			}
		}
	}()

	<-ctx.Done()
	fmt.Println("leaving room")

	return nil
}

func main() {
	godotenv.Load()

	cfg := loadWatchConfig()

	level := slog.LevelWarn
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatalf("invalid log level: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatal(err)
	}
}
