package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/fsutil"
)

var (
	contactDatabase  string
	contactCutoff    float64
	contactDistances bool
	contactOutput    string
)

var contactMapCmd = &cobra.Command{
	Use:   "contact-map <structure-id>",
	Short: "Print the residue contact map of a stored structure",
	Long: `Loads a structure's binary atom file from the database and computes its
residue contact map: two residues are in contact when the closest pair of
their heavy atoms is nearer than the cutoff (in ångström).

The map is printed as rows of 0/1. With --distances the tab-separated
distance matrix is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runContactMap,
}

func init() {
	contactMapCmd.Flags().StringVarP(&contactDatabase, "database", "d", "", "structure database directory")
	contactMapCmd.Flags().Float64VarP(&contactCutoff, "cutoff", "c", domain.DefaultContactCutoff, "contact distance cutoff in ångström")
	contactMapCmd.Flags().BoolVar(&contactDistances, "distances", false, "print the distance matrix instead of contacts")
	contactMapCmd.Flags().StringVarP(&contactOutput, "output", "o", "", "write to this file instead of stdout")
	_ = contactMapCmd.MarkFlagRequired("database")
	rootCmd.AddCommand(contactMapCmd)
}

func runContactMap(cmd *cobra.Command, args []string) error {
	if contactMapService == nil {
		return errors.New("contact map service not configured")
	}

	cutoff := contactCutoff
	if !cmd.Flags().Changed("cutoff") && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		cutoff = settings.ContactMap.Cutoff
	}
	if cutoff <= 0 {
		return fmt.Errorf("%w: --cutoff must be positive", domain.ErrInvalidInput)
	}

	ctx := commandContext(cmd)

	m, err := contactMapService.Load(ctx, contactDatabase, args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	write := func(w io.Writer) error {
		if contactDistances {
			return writeDistances(w, m)
		}
		return writeContacts(w, m.Threshold(float32(cutoff)))
	}

	if contactOutput == "" {
		return write(cmd.OutOrStdout())
	}
	if err := fsutil.WriteFileAtomic(contactOutput, write); err != nil {
		return fmt.Errorf("write %s: %w", contactOutput, err)
	}
	cmd.Printf("%s: %d residues written to %s\n", args[0], m.N, contactOutput)
	return nil
}

func writeContacts(w io.Writer, cm *domain.ContactMap) error {
	bw := bufio.NewWriter(w)
	for _, row := range cm.Rows() {
		for j, v := range row {
			if j > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteByte('0' + v)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeDistances(w io.Writer, m *domain.DistanceMatrix) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 16)
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			if j > 0 {
				bw.WriteByte('\t')
			}
			buf = strconv.AppendFloat(buf[:0], float64(m.At(i, j)), 'f', 3, 32)
			bw.Write(buf)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
