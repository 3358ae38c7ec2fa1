// Package atomfile stores per-structure atom coordinates and residue
// boundaries as compact binary files.
//
// File layout (all integers and floats little-endian):
//
//	uint32   atom count N
//	float32  N×3 coordinates (x, y, z per atom)
//	uint32   boundary count M
//	int32    M residue start offsets
package atomfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

var byteOrder = binary.LittleEndian

// Encode writes positions and residue boundaries to w.
// It rejects any index that Decode would reject.
func Encode(w io.Writer, positions []domain.Vec3, index domain.ResidueGroupIndex) error {
	if uint64(len(positions)) > math.MaxUint32 || uint64(len(index)) > math.MaxUint32 {
		return fmt.Errorf("%w: structure too large to encode", domain.ErrCodec)
	}
	atoms := uint32(len(positions))
	if err := checkBoundaryCount(uint32(len(index)), atoms); err != nil {
		return err
	}
	for _, b := range index {
		if err := checkBoundary(b, atoms); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)
	var word [4]byte

	byteOrder.PutUint32(word[:], uint32(len(positions)))
	if _, err := bw.Write(word[:]); err != nil {
		return err
	}
	for _, p := range positions {
		for _, v := range p {
			byteOrder.PutUint32(word[:], math.Float32bits(v))
			if _, err := bw.Write(word[:]); err != nil {
				return err
			}
		}
	}

	byteOrder.PutUint32(word[:], uint32(len(index)))
	if _, err := bw.Write(word[:]); err != nil {
		return err
	}
	for _, b := range index {
		byteOrder.PutUint32(word[:], uint32(b))
		if _, err := bw.Write(word[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a file written by Encode.
// Short reads and implausible counts return an error wrapping domain.ErrCodec.
func Decode(r io.Reader) ([]domain.Vec3, domain.ResidueGroupIndex, error) {
	br := bufio.NewReader(r)

	atoms, err := readUint32(br, "atom count")
	if err != nil {
		return nil, nil, err
	}

	positions := make([]domain.Vec3, 0, min(int(atoms), 1<<16))
	var buf [12]byte
	for i := uint32(0); i < atoms; i++ {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, nil, codecErr("coordinates", err)
		}
		positions = append(positions, domain.Vec3{
			math.Float32frombits(byteOrder.Uint32(buf[0:4])),
			math.Float32frombits(byteOrder.Uint32(buf[4:8])),
			math.Float32frombits(byteOrder.Uint32(buf[8:12])),
		})
	}

	count, err := readUint32(br, "boundary count")
	if err != nil {
		return nil, nil, err
	}
	if err := checkBoundaryCount(count, atoms); err != nil {
		return nil, nil, err
	}

	index := make(domain.ResidueGroupIndex, count)
	for i := range index {
		v, err := readUint32(br, "boundaries")
		if err != nil {
			return nil, nil, err
		}
		b := int32(v)
		if err := checkBoundary(b, atoms); err != nil {
			return nil, nil, err
		}
		index[i] = b
	}

	switch _, err := br.ReadByte(); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, nil, fmt.Errorf("%w: reading end of file: %w", domain.ErrCodec, err)
	default:
		return nil, nil, fmt.Errorf("%w: trailing data after %d boundaries", domain.ErrCodec, count)
	}
	return positions, index, nil
}

// checkBoundaryCount allows one boundary per residue plus the sentinel:
// never more than atoms+1.
func checkBoundaryCount(count, atoms uint32) error {
	if uint64(count) > uint64(atoms)+1 {
		return fmt.Errorf("%w: boundary count %d exceeds atom count %d", domain.ErrCodec, count, atoms)
	}
	return nil
}

func checkBoundary(b int32, atoms uint32) error {
	if b < 0 || int64(b) > int64(atoms) {
		return fmt.Errorf("%w: boundary %d out of range [0, %d]", domain.ErrCodec, b, atoms)
	}
	return nil
}

func readUint32(r io.Reader, what string) (uint32, error) {
	var word [4]byte
	if _, err := io.ReadFull(r, word[:]); err != nil {
		return 0, codecErr(what, err)
	}
	return byteOrder.Uint32(word[:]), nil
}

func codecErr(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", domain.ErrCodec, what)
	}
	return fmt.Errorf("%w: reading %s: %w", domain.ErrCodec, what, err)
}
