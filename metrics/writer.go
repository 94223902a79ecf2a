package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// AgentConfig describes a search agent taking part in an experiment.
type AgentConfig struct {
	ID         int
	Goroutines int
	Duration   time.Duration
	Episodes   int
	Cutoff     int
}

type GameRecord struct {
	ID        int
	PlayerOne string // Name of the agent playing player one
	PlayerTwo string
	Winner    int // 1 or -1 for the winning player, 0 for a draw or an aborted game
	Plies     int
	Capped    bool // Ended as a draw by the move limit
	Err       string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type MoveRecord struct {
	Game   int // GameRecord.ID
	Step   int
	Player int
	Agent  string
	Action int
	SearchMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of dir named by the current timestamp and
// writes every file there.
func NewWriter(dir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000000000")
	baseDir := filepath.Join(dir, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create records directory")
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "goroutines", "duration", "episodes", "cutoff"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Goroutines),
			config.Duration.String(),
			strconv.Itoa(config.Episodes),
			strconv.Itoa(config.Cutoff),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "player_one", "player_two", "winner", "plies", "capped", "error", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			record.PlayerOne,
			record.PlayerTwo,
			strconv.Itoa(record.Winner),
			strconv.Itoa(record.Plies),
			strconv.FormatBool(record.Capped),
			record.Err,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "agent", "action", "duration", "episodes", "full_playouts", "draw_playouts", "is_tree_reset"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Agent,
			strconv.Itoa(record.Action),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.DrawPlayouts),
			strconv.FormatBool(record.IsTreeReset),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", name)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return errors.Wrapf(err, "failed to write %s header", name)
	}
	if err := writer.WriteAll(rows); err != nil { // WriteAll flushes
		return errors.Wrapf(err, "failed to write %s rows", name)
	}
	return nil
}
