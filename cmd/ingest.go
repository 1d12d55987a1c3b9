package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coachlab/golfmetrics/internal/aggregator"
	"github.com/coachlab/golfmetrics/internal/config"
	"github.com/coachlab/golfmetrics/internal/drive"
	"github.com/coachlab/golfmetrics/internal/ingest"
	"github.com/coachlab/golfmetrics/internal/model"
	"github.com/coachlab/golfmetrics/internal/normalize"
	"github.com/coachlab/golfmetrics/internal/report"
	"github.com/coachlab/golfmetrics/internal/roster"
	"github.com/coachlab/golfmetrics/internal/storage"
	"github.com/coachlab/golfmetrics/internal/workbook"
)

var (
	ingestForce   bool
	ingestPublish bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.csv> [file.csv...]",
	Short: "Ingest a session batch of launch monitor CSV files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "replace an already stored session")
	ingestCmd.Flags().BoolVar(&ingestPublish, "publish", false, "publish artifacts to the session store")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ros, err := roster.Load(cfg.Paths.Roster)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	// All files are read and the session date resolved before anything
	// is written: a bad batch fails whole, leaving no partial output.
	files := make([]ingest.RawFile, 0, len(args))
	for _, path := range args {
		f, err := ingest.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	sessionDate, err := ingest.BatchSessionDate(files)
	if err != nil {
		return err
	}

	var shots []model.Shot
	for _, f := range files {
		raw := ingest.DetectPlayerName(f)
		meta := normalize.BatchMeta{
			SessionDate: sessionDate,
			PlayerRaw:   raw,
			Alias:       ros.Alias(raw),
			Hand:        ros.Hand(raw),
		}
		fileShots, cols := normalize.Canonicalize(f, meta)
		normalize.DeriveSpin(fileShots, cols)
		log.WithFields(logrus.Fields{
			"file":   f.Name,
			"player": meta.Alias,
			"shots":  len(fileShots),
		}).Debug("file canonicalized")
		shots = append(shots, fileShots...)
	}

	sessions := aggregator.Sessions(shots, cfg.Policy)

	db, err := storage.Open(cfg.Paths.DB)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	exists, err := db.BatchExists(sessionDate)
	if err != nil {
		return fmt.Errorf("check batch: %w", err)
	}
	if exists {
		if !ingestForce {
			return fmt.Errorf("session %s already ingested (use --force to replace)", sessionDate)
		}
		if err := db.DeleteBatch(sessionDate); err != nil {
			return fmt.Errorf("replace batch: %w", err)
		}
	}

	batch := model.BatchSummary{
		ID:          uuid.NewString(),
		SessionDate: sessionDate,
		FileCount:   len(files),
		ShotCount:   len(shots),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := db.InsertBatch(batch); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	if err := db.InsertShots(batch.ID, shots); err != nil {
		return fmt.Errorf("insert shots: %w", err)
	}
	if err := db.InsertSessionStats(sessions); err != nil {
		return fmt.Errorf("insert session stats: %w", err)
	}

	artifacts, err := generateArtifacts(cfg, shots, sessionDate)
	if err != nil {
		return err
	}

	if ingestPublish {
		if err := publishSession(cfg, sessionDate, args, artifacts); err != nil {
			return err
		}
	}

	report.PrintBatchSummary(os.Stdout, batch)
	fmt.Fprintln(os.Stdout)
	report.PrintSessionTable(os.Stdout, sessions)
	return nil
}

// sessionArtifacts are the files one run of the generators produces.
type sessionArtifacts struct {
	Workbook  string
	Documents []string
}

// generateArtifacts writes the session workbook and the four document
// models per the session's players. Document failures degrade to
// fallback files and are reported, not fatal.
func generateArtifacts(cfg config.Config, shots []model.Shot, sessionDate string) (sessionArtifacts, error) {
	var art sessionArtifacts

	if err := os.MkdirAll(cfg.Paths.OutDir, 0o755); err != nil {
		return art, fmt.Errorf("create output dir: %w", err)
	}

	art.Workbook = filepath.Join(cfg.Paths.OutDir, workbookName(sessionDate))
	sessions := aggregator.Sessions(shots, cfg.Policy)
	if err := workbook.Write(art.Workbook, shots, sessions); err != nil {
		return art, fmt.Errorf("write workbook: %w", err)
	}

	gen := report.Generator{Policy: cfg.Policy, OutDir: cfg.Paths.OutDir, Log: log}
	failed := 0
	for _, res := range gen.SessionDocuments(shots, sessionDate) {
		art.Documents = append(art.Documents, res.Path)
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", res.Document, res.Err)
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d document(s) fell back to the minimal report\n", failed)
	}
	return art, nil
}

func publishSession(cfg config.Config, sessionDate string, sources []string, art sessionArtifacts) error {
	store, err := drive.NewLocalStore(cfg.Paths.StoreRoot)
	if err != nil {
		return err
	}
	pub := drive.Publisher{Store: store, Log: log}
	if err := pub.Init(); err != nil {
		return err
	}
	if err := pub.ArchiveSources(sessionDate, sources); err != nil {
		return err
	}
	if err := pub.PublishBase(sessionDate, art.Workbook); err != nil {
		return err
	}
	for _, doc := range art.Documents {
		if err := pub.PublishDocument(sessionDate, doc); err != nil {
			return err
		}
	}
	return nil
}

func workbookName(sessionDate string) string {
	return fmt.Sprintf("Session_%s.xlsx", strings.ReplaceAll(sessionDate, "-", ""))
}
