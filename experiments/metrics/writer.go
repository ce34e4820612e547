package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AgentConfig describes one tournament entrant.
type AgentConfig struct {
	ID       int
	Kind     string // search | random
	Depth    int
	Duration time.Duration
	Tactics  bool
	Evaluate string // adaptive | race
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID playing side 0
	Agent2 int // AgentConfig.ID playing side 1
	Seed   uint64
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a fresh run directory under outputDir/name.
func NewWriter(outputDir, name string) (*Writer, error) {
	baseDir := filepath.Join(outputDir, name, uuid.NewString())
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	err = writer.WriteAll(rows) // Flushes
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", file, err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "depth", "duration", "tactics", "evaluate"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Depth),
			config.Duration.String(),
			strconv.FormatBool(config.Tactics),
			config.Evaluate,
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "seed", "result", "winner", "forfeit", "turns", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.FormatUint(record.Seed, 10),
			record.Result,
			strconv.Itoa(record.Winner),
			strconv.Itoa(record.Forfeit),
			strconv.Itoa(record.Turns),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "turn", "side", "depth", "budget", "duration", "nodes", "evaluations", "tactic0", "tactic1", "timed_out"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Turn),
			strconv.Itoa(record.Side),
			strconv.Itoa(record.Depth),
			record.Budget.String(),
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Evaluations),
			record.Tactics[0],
			record.Tactics[1],
			strconv.FormatBool(record.TimedOut),
		})
	}
	return w.write("move_records.csv", header, rows)
}
