package domain

// DefaultContactCutoff is the distance threshold in ångström used when
// a caller does not configure one.
const DefaultContactCutoff = 6.0

// DistanceMatrix is a symmetric residue-by-residue distance matrix
// stored row-major.
type DistanceMatrix struct {
	N    int
	Data []float32
}

// NewDistanceMatrix allocates an n×n zero matrix.
func NewDistanceMatrix(n int) *DistanceMatrix {
	return &DistanceMatrix{N: n, Data: make([]float32, n*n)}
}

// At returns the distance between residues i and j.
func (m *DistanceMatrix) At(i, j int) float32 {
	return m.Data[i*m.N+j]
}

// SetSymmetric writes d into both (i,j) and (j,i).
func (m *DistanceMatrix) SetSymmetric(i, j int, d float32) {
	m.Data[i*m.N+j] = d
	m.Data[j*m.N+i] = d
}

// Threshold returns the contact map of residues closer than cutoff.
func (m *DistanceMatrix) Threshold(cutoff float32) *ContactMap {
	cm := &ContactMap{N: m.N, Data: make([]bool, len(m.Data))}
	for i, d := range m.Data {
		cm.Data[i] = d < cutoff
	}
	return cm
}

// ContactMap is a symmetric boolean residue-by-residue matrix stored row-major.
type ContactMap struct {
	N    int
	Data []bool
}

// At reports whether residues i and j are in contact.
func (c *ContactMap) At(i, j int) bool {
	return c.Data[i*c.N+j]
}

// Contacts returns the number of residue pairs (i < j) in contact.
func (c *ContactMap) Contacts() int {
	n := 0
	for i := 0; i < c.N; i++ {
		for j := i + 1; j < c.N; j++ {
			if c.At(i, j) {
				n++
			}
		}
	}
	return n
}

// Rows returns the map as a slice of 0/1 rows.
func (c *ContactMap) Rows() [][]uint8 {
	rows := make([][]uint8, c.N)
	for i := range rows {
		rows[i] = make([]uint8, c.N)
		for j := 0; j < c.N; j++ {
			if c.At(i, j) {
				rows[i][j] = 1
			}
		}
	}
	return rows
}
