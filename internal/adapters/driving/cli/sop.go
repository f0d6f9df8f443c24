package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/throughnateseyes/playbook/internal/connectors/filesystem"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/normalisers/sop"
	"github.com/throughnateseyes/playbook/internal/seed"
)

var (
	sopJSON     bool
	sopCategory string
	sopFilter   string
	sopPinned   bool
	sopFile     string
	sopTitle    string
	sopOverview string
	sopTags     []string
	sopOutput   string
)

var sopCmd = &cobra.Command{
	Use:   "sop",
	Short: "Manage SOPs in the current workspace",
	Long: `Create, inspect, edit and delete standard operating procedures.

Records read from files are normalised: legacy field names are reconciled
and missing fields get defaults, so any JSON object can be imported.`,
}

var sopListCmd = &cobra.Command{
	Use:   "list",
	Short: "List SOPs",
	Args:  cobra.NoArgs,
	RunE:  runSOPList,
}

var sopGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one SOP",
	Args:  cobra.ExactArgs(1),
	RunE:  runSOPGet,
}

var sopCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an SOP",
	Long: `Create an SOP from flags or from a JSON file.

Examples:
  playbook sop create --title "Key Handover" --category Leasing
  playbook sop create --file new-sop.json
  cat new-sop.json | playbook sop create --file -`,
	Args: cobra.NoArgs,
	RunE: runSOPCreate,
}

var sopUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update an SOP",
	Long: `Update an SOP from flags or from a JSON patch file.

Fields in the patch replace the stored fields wholesale; the ID never
changes. lastUpdated is set to today unless the patch carries it.`,
	Args: cobra.ExactArgs(1),
	RunE: runSOPUpdate,
}

var sopDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an SOP",
	Args:  cobra.ExactArgs(1),
	RunE:  runSOPDelete,
}

var sopImportCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import SOPs from a JSON file or directory",
	Long: `Import SOPs from a JSON file, or from every *.json file below a directory.

Each file may hold one SOP, an array of SOPs, or an object with a "sops"
array. SOPs with an existing ID replace the stored one in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runSOPImport,
}

var sopExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all SOPs as JSON",
	Args:  cobra.NoArgs,
	RunE:  runSOPExport,
}

var sopSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the example SOPs into an empty workspace",
	Args:  cobra.NoArgs,
	RunE:  runSOPSeed,
}

func init() {
	sopListCmd.Flags().StringVarP(&sopCategory, "category", "c", "", "only list SOPs in this category")
	sopListCmd.Flags().StringVarP(&sopFilter, "filter", "f", "", "only list SOPs whose title, overview or tags contain this text")
	sopListCmd.Flags().BoolVar(&sopPinned, "pinned", false, "only list pinned SOPs")
	sopListCmd.Flags().BoolVar(&sopJSON, "json", false, "output as JSON")

	sopGetCmd.Flags().BoolVar(&sopJSON, "json", false, "output as JSON")

	for _, c := range []*cobra.Command{sopCreateCmd, sopUpdateCmd} {
		c.Flags().StringVar(&sopFile, "file", "", "read the SOP from a JSON file (- for stdin)")
		c.Flags().StringVar(&sopTitle, "title", "", "SOP title")
		c.Flags().StringVarP(&sopCategory, "category", "c", "", "SOP category")
		c.Flags().StringVar(&sopOverview, "overview", "", "SOP overview")
		c.Flags().StringSliceVar(&sopTags, "tag", nil, "SOP tag (repeatable)")
	}

	sopExportCmd.Flags().StringVarP(&sopOutput, "out", "o", "", "write to a file instead of stdout")

	sopCmd.AddCommand(sopListCmd)
	sopCmd.AddCommand(sopGetCmd)
	sopCmd.AddCommand(sopCreateCmd)
	sopCmd.AddCommand(sopUpdateCmd)
	sopCmd.AddCommand(sopDeleteCmd)
	sopCmd.AddCommand(sopImportCmd)
	sopCmd.AddCommand(sopExportCmd)
	sopCmd.AddCommand(sopSeedCmd)
	rootCmd.AddCommand(sopCmd)
}

var errSOPServiceNotConfigured = errors.New("sop service not configured")

func runSOPList(cmd *cobra.Command, _ []string) error {
	if sopService == nil {
		return errSOPServiceNotConfigured
	}

	filter := domain.SOPFilter{
		Category:   domain.Category(sopCategory),
		Text:       sopFilter,
		PinnedOnly: sopPinned,
	}
	if sopPinned && settingsService != nil {
		filter.Pinned = settingsService.Pinned()
	}

	sops, err := sopService.Filter(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list sops: %w", err)
	}

	if sopJSON {
		return writeJSON(cmd.OutOrStdout(), sops)
	}

	if len(sops) == 0 {
		cmd.Println("No SOPs found.")
		return nil
	}

	for i := range sops {
		cmd.Printf("%-14s %-40s %s\n", sops[i].ID, sops[i].Title, sops[i].Category)
	}
	return nil
}

func runSOPGet(cmd *cobra.Command, args []string) error {
	if sopService == nil {
		return errSOPServiceNotConfigured
	}

	s, err := sopService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if sopJSON {
		return writeJSON(cmd.OutOrStdout(), s)
	}

	printSOP(cmd, s)
	return nil
}

func runSOPCreate(cmd *cobra.Command, _ []string) error {
	if sopService == nil {
		return errSOPServiceNotConfigured
	}

	var in domain.SOP
	if sopFile != "" {
		data, err := readInput(cmd, sopFile)
		if err != nil {
			return err
		}
		sops, err := sop.DecodeJSON(data)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", sopFile, err)
		}
		if len(sops) != 1 {
			return fmt.Errorf("%w: expected exactly one SOP, got %d", domain.ErrInvalidInput, len(sops))
		}
		in = sops[0]
	} else {
		in = sop.Normalise(map[string]any{})
		in.Title = sopTitle
		if sopCategory != "" {
			in.Category = domain.Category(sopCategory)
		}
		in.Overview = sopOverview
		in.Tags = append([]string{}, sopTags...)
	}

	if err := in.Validate(); err != nil {
		return err
	}

	created, err := sopService.Create(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("failed to create sop: %w", err)
	}

	cmd.Printf("Created SOP %s: %s\n", created.ID, created.Title)
	return nil
}

func runSOPUpdate(cmd *cobra.Command, args []string) error {
	if sopService == nil {
		return errSOPServiceNotConfigured
	}

	patch := map[string]any{}
	if sopFile != "" {
		data, err := readInput(cmd, sopFile)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &patch); err != nil {
			return fmt.Errorf("%w: patch must be a JSON object: %v", domain.ErrInvalidInput, err)
		}
	}
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch["title"] = sopTitle
	}
	if flags.Changed("category") {
		patch["category"] = sopCategory
	}
	if flags.Changed("overview") {
		patch["overview"] = sopOverview
	}
	if flags.Changed("tag") {
		tags := make([]any, 0, len(sopTags))
		for _, t := range sopTags {
			tags = append(tags, t)
		}
		patch["tags"] = tags
	}
	if len(patch) == 0 {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	updated, err := sopService.Update(cmd.Context(), args[0], patch)
	if err != nil {
		return fmt.Errorf("failed to update sop: %w", err)
	}

	cmd.Printf("Updated SOP %s: %s\n", updated.ID, updated.Title)
	return nil
}

func runSOPDelete(cmd *cobra.Command, args []string) error {
	if sopService == nil {
		return errSOPServiceNotConfigured
	}

	if err := sopService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete sop: %w", err)
	}

	cmd.Printf("Deleted SOP %s\n", args[0])
	return nil
}

func runSOPImport(cmd *cobra.Command, args []string) error {
	if sopService == nil {
		return errSOPServiceNotConfigured
	}

	loader := filesystem.NewLoader(args[0], sop.New())
	result, err := loader.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	n, err := sopService.Import(cmd.Context(), result.SOPs)
	if err != nil {
		return fmt.Errorf("failed to import sops: %w", err)
	}

	cmd.Printf("Imported %d SOPs from %d files\n", n, result.Files)
	for _, skipped := range result.Skipped {
		cmd.Printf("  skipped %s\n", skipped)
	}
	return nil
}

func runSOPExport(cmd *cobra.Command, _ []string) error {
	if sopService == nil {
		return errSOPServiceNotConfigured
	}

	sops, err := sopService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sops: %w", err)
	}

	if sopOutput == "" {
		return writeJSON(cmd.OutOrStdout(), sops)
	}

	f, err := os.Create(sopOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", sopOutput, err)
	}
	if err := writeJSON(f, sops); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", sopOutput, err)
	}

	cmd.Printf("Exported %d SOPs to %s\n", len(sops), sopOutput)
	return nil
}

func runSOPSeed(cmd *cobra.Command, _ []string) error {
	if sopService == nil {
		return errSOPServiceNotConfigured
	}

	before, err := sopService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sops: %w", err)
	}
	if len(before) > 0 {
		cmd.Printf("Workspace already has %d SOPs; nothing seeded.\n", len(before))
		return nil
	}

	after, err := sopService.Seed(cmd.Context(), seed.SOPs())
	if err != nil {
		return fmt.Errorf("failed to seed sops: %w", err)
	}

	cmd.Printf("Seeded %d SOPs.\n", len(after))
	return nil
}

func printSOP(cmd *cobra.Command, s *domain.SOP) {
	cmd.Println(s.Title)
	cmd.Printf("ID: %s  Category: %s", s.ID, s.Category)
	if s.LastUpdated != "" {
		cmd.Printf("  Updated: %s", s.LastUpdated)
	}
	cmd.Println()
	if len(s.Tags) > 0 {
		cmd.Printf("Tags: %v\n", s.Tags)
	}

	if s.Overview != "" {
		cmd.Println()
		cmd.Println(s.Overview)
	}

	if len(s.Steps) > 0 {
		cmd.Println()
		cmd.Println("Steps:")
		for i, step := range s.Steps {
			cmd.Printf("  %d. %s\n", i+1, step.Text)
			if step.Script != "" {
				cmd.Printf("     Script: %s\n", step.Script)
			}
		}
	}

	if len(s.EdgeCases) > 0 {
		cmd.Println()
		cmd.Println("Edge cases:")
		for _, ec := range s.EdgeCases {
			cmd.Printf("  - %s: %s\n", ec.Title, ec.Description)
		}
	}

	if !s.Escalation.IsZero() {
		cmd.Println()
		cmd.Printf("Escalation: %s -> %s\n", s.Escalation.When, s.Escalation.Who)
	}

	if len(s.Contacts) > 0 {
		cmd.Println()
		cmd.Println("Contacts:")
		for _, c := range s.Contacts {
			cmd.Printf("  - %s (%s)\n", c.Name, c.Role)
		}
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}
