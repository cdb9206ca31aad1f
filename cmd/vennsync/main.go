// Package main provides the CLI entry point for vennsync.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/vennsync/pkg/vennsync"
	"github.com/ukaji3/vennsync/pkg/vennsync/config"
	"github.com/ukaji3/vennsync/pkg/vennsync/geometry"
	"github.com/ukaji3/vennsync/pkg/vennsync/index"
	"github.com/ukaji3/vennsync/pkg/vennsync/models"
	"github.com/ukaji3/vennsync/pkg/vennsync/output"
	"github.com/ukaji3/vennsync/pkg/vennsync/venn"
	"github.com/ukaji3/vennsync/pkg/vennsync/xlsx"
)

var (
	configPath  string
	logLevel    string
	cacheKind   string
	cachePath   string
	labelFormat string
	pretty      bool
	outputPath  string
	format      string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vennsync",
		Short: "Keep Venn diagrams in Excel workbooks in sync with their data",
		Long: `vennsync inserts Venn diagrams generated from [item, group] ranges into
xlsx workbooks and regenerates them whenever their source range changes.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&cacheKind, "cache", "", "Binding index cache: memory or sqlite")
	flags.StringVar(&cachePath, "cache-path", "", "Path of the sqlite binding index cache")
	flags.StringVar(&labelFormat, "label-format", "", "Region label template ({number}, {percent}, {logic})")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	insertCmd := &cobra.Command{
		Use:   "insert <input.xlsx> <[sheet!]range | sheet>",
		Short: "Insert a Venn diagram bound to a range",
		Long: `Insert renders a Venn diagram from a two-column [item, group] range and
places it to the right of the range. Given only a sheet name, the sheet's
data region is used.`,
		Args: cobra.ExactArgs(2),
		RunE: runInsert,
	}

	syncCmd := &cobra.Command{
		Use:   "sync <input.xlsx> [[sheet!]range]",
		Short: "Regenerate the diagrams bound to an edited range",
		Long: `Sync treats the given range as edited and regenerates every diagram bound
to an intersecting range. Without a range, every sheet's data region is treated
as edited.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runSync,
	}

	renderCmd := &cobra.Command{
		Use:   "render <input.xlsx> <[sheet!]range>",
		Short: "Render the diagram of a range without modifying the workbook",
		Args:  cobra.ExactArgs(2),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	renderCmd.Flags().StringVar(&format, "format", "", "Output format: png or svg (default: from output extension, else svg)")

	listCmd := &cobra.Command{
		Use:   "list <input.xlsx>",
		Short: "List the bound diagrams of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}

	watchCmd := &cobra.Command{
		Use:   "watch <input.xlsx>",
		Short: "Regenerate bound diagrams whenever the workbook is saved",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	watchCmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "Quiet period after a write before syncing")

	rootCmd.AddCommand(insertCmd, syncCmd, renderCmd, listCmd, watchCmd)
	return rootCmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cacheKind != "" {
		cfg.Cache.Backend = cacheKind
	}
	if cachePath != "" {
		cfg.Cache.Path = cachePath
	}
	if labelFormat != "" {
		cfg.LabelFormat = labelFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// session holds what a command needs to work on one workbook.
type session struct {
	cfg      config.Config
	logger   *zap.Logger
	index    *index.Index
	workbook *xlsx.Workbook
	engine   *vennsync.Engine
	release  func() error
}

func openSession(path string) (*session, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	cache, release, err := cfg.OpenCache()
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	s := &session{
		cfg:     cfg,
		logger:  logger,
		index:   index.New(cache, cfg.Cache.TTL, logger),
		release: release,
	}
	if err := s.open(path); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// open (re)loads the workbook at path.
func (s *session) open(path string) error {
	if s.workbook != nil {
		s.workbook.Close()
		s.workbook = nil
	}
	w, err := xlsx.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	w.SettleDelay = s.cfg.SettleDelay
	s.workbook = w
	s.engine = vennsync.NewEngine(w, s.index, s.cfg.Options(s.logger))
	return nil
}

// reload reopens the workbook at path after an outside change and drops its
// cached binding index.
func (s *session) reload(ctx context.Context, path string) error {
	if err := s.open(path); err != nil {
		return err
	}
	if err := s.index.Invalidate(ctx, s.workbook.DocumentID()); err != nil {
		s.logger.Warn("Failed to invalidate binding index", zap.String("doc", s.workbook.DocumentID()), zap.Error(err))
	}
	return nil
}

func (s *session) Close() {
	if s.workbook != nil {
		s.workbook.Close()
	}
	if s.release != nil {
		if err := s.release(); err != nil {
			s.logger.Warn("Failed to close cache", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// target resolves a "[sheet!]range" or bare sheet name argument. Without a
// sheet part, the active sheet is used.
func (s *session) target(ref string) (int, models.RangeExtent, error) {
	sheet, ext, err := geometry.ParseQualified(ref)
	if err != nil {
		if strings.Contains(ref, "!") {
			return 0, models.RangeExtent{}, err
		}
		return s.dataRegion(strings.Trim(ref, "'"))
	}

	if sheet == "" {
		f := s.workbook.File()
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	sheetID, err := s.workbook.SheetID(sheet)
	if err != nil {
		return 0, models.RangeExtent{}, err
	}
	return sheetID, ext, nil
}

func (s *session) dataRegion(sheet string) (int, models.RangeExtent, error) {
	sheetID, err := s.workbook.SheetID(sheet)
	if err != nil {
		return 0, models.RangeExtent{}, err
	}
	ext, ok, err := s.workbook.UsedExtent(sheetID)
	if err != nil {
		return 0, models.RangeExtent{}, err
	}
	if !ok {
		return 0, models.RangeExtent{}, fmt.Errorf("sheet %q has no data", sheet)
	}
	return sheetID, ext, nil
}

func printJSON(v any) error {
	data, err := output.ToJSON(v, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	s, err := openSession(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	sheetID, ext, err := s.target(args[1])
	if err != nil {
		return err
	}

	b, err := s.engine.Bind(cmd.Context(), models.DiagramVenn, sheetID, ext)
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	if err := s.workbook.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return printJSON(b)
}

func runSync(cmd *cobra.Command, args []string) error {
	s, err := openSession(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	var edits []models.Edit
	if len(args) == 2 {
		sheetID, ext, err := s.target(args[1])
		if err != nil {
			return err
		}
		edits = append(edits, models.Edit{SheetID: sheetID, Extent: ext})
	} else {
		edits, err = sheetEdits(s.workbook)
		if err != nil {
			return err
		}
	}

	results, syncErr := applyEdits(cmd, s, edits)
	if err := printJSON(results); err != nil {
		return err
	}
	return syncErr
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := openSession(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	sheetID, ext, err := s.target(args[1])
	if err != nil {
		return err
	}
	rows, err := s.workbook.ReadRange(sheetID, ext)
	if err != nil {
		return err
	}
	rendered, err := venn.Generate(rows, venn.Options{
		LabelFormat: s.cfg.LabelFormat,
		Palette:     s.cfg.Palette,
	})
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	outFormat := format
	if outFormat == "" {
		outFormat = "svg"
		if strings.EqualFold(filepath.Ext(outputPath), ".png") {
			outFormat = "png"
		}
	}

	var data []byte
	switch strings.ToLower(outFormat) {
	case "svg":
		data = rendered.SVG
	case "png":
		data = rendered.PNG
	default:
		return fmt.Errorf("invalid format: %s (must be png or svg)", outFormat)
	}

	if outputPath == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	images, err := s.workbook.Images()
	if err != nil {
		return err
	}
	return printJSON(index.Project(images, s.logger))
}
