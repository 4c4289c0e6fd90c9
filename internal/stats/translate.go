// Package stats computes sequence statistics for extracted regions and
// for the reference as a whole.
package stats

import "strings"

// Bacterial, archaeal and plant plastid code (NCBI translation table 11).
// Its amino acid assignments match the standard code; only start codons differ.
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// IUPAC nucleotide codes and the bases they stand for.
var ambiguity = map[byte]string{
	'A': "A", 'C': "C", 'G': "G", 'T': "T", 'U': "T",
	'R': "AG", 'Y': "CT", 'S': "CG", 'W': "AT", 'K': "GT", 'M': "AC",
	'B': "CGT", 'D': "AGT", 'H': "ACT", 'V': "ACG", 'N': "ACGT",
}

// TranslateCodon translates a codon using table 11.
// Ambiguous codons translate only when every expansion yields the same
// residue (e.g. GCN -> A); otherwise, and for invalid input, it returns 'X'.
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	codon = strings.ToUpper(codon)
	if aa, ok := codonTable[codon]; ok {
		return aa
	}
	return translateAmbiguous(codon)
}

func translateAmbiguous(codon string) byte {
	var options [3]string
	for i := 0; i < 3; i++ {
		bases, ok := ambiguity[codon[i]]
		if !ok {
			return 'X'
		}
		options[i] = bases
	}

	var aa byte
	var buf [3]byte
	for _, b0 := range []byte(options[0]) {
		for _, b1 := range []byte(options[1]) {
			for _, b2 := range []byte(options[2]) {
				buf[0], buf[1], buf[2] = b0, b1, b2
				got := codonTable[string(buf[:])]
				if aa == 0 {
					aa = got
				} else if got != aa {
					return 'X'
				}
			}
		}
	}
	return aa
}

// Translate translates seq codon by codon from its first base.
// Translation continues through stop codons; a trailing partial codon is dropped.
func Translate(seq string) string {
	n := (len(seq) / 3) * 3

	var result strings.Builder
	result.Grow(n / 3)
	for i := 0; i < n; i += 3 {
		result.WriteByte(TranslateCodon(seq[i : i+3]))
	}
	return result.String()
}

// Complement returns the complement of a single IUPAC base, preserving case.
func Complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T', 'U':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	case 'R':
		return 'Y'
	case 'Y':
		return 'R'
	case 'K':
		return 'M'
	case 'M':
		return 'K'
	case 'B':
		return 'V'
	case 'V':
		return 'B'
	case 'D':
		return 'H'
	case 'H':
		return 'D'
	case 'S', 'W', 'N':
		return base
	case 'a':
		return 't'
	case 't', 'u':
		return 'a'
	case 'g':
		return 'c'
	case 'c':
		return 'g'
	case 'r':
		return 'y'
	case 'y':
		return 'r'
	case 'k':
		return 'm'
	case 'm':
		return 'k'
	case 'b':
		return 'v'
	case 'v':
		return 'b'
	case 'd':
		return 'h'
	case 'h':
		return 'd'
	case 's', 'w', 'n':
		return base
	default:
		return 'N'
	}
}

// ReverseComplement returns the reverse complement of a DNA sequence.
func ReverseComplement(seq string) string {
	n := len(seq)
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = Complement(seq[n-1-i])
	}
	return string(result)
}

// SixFrames translates the forward strand at offsets 0, 1 and 2, then the
// reverse complement at offsets 0, 1 and 2.
func SixFrames(seq string) [6]string {
	var frames [6]string
	strands := [2]string{seq, ReverseComplement(seq)}
	for s, strand := range strands {
		for offset := 0; offset < 3; offset++ {
			if offset < len(strand) {
				frames[s*3+offset] = Translate(strand[offset:])
			}
		}
	}
	return frames
}
