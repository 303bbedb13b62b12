package pool

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/snksoft/crc"
)

// Snapshot files are gzip-compressed text, one "id,count,dist,bias"
// line per entry in ascending id order, terminated by a CRC-64 trailer
// line over the payload:
//
//	#crc64,<hex>

const crcTrailer = "#crc64,"

// Writes the pool to a snapshot file
func (p *Pool) Save(fname string) (err error) {
	var buf bytes.Buffer

	for _, id := range p.IDs() {
		e := p.entries[id]
		fmt.Fprintf(&buf, "%d,%v,%v,%v\n", id, e.Count, e.Dist, e.Bias)
	}

	f, err := os.Create(fname)
	if err != nil {
		return
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if _, err = zw.Write(buf.Bytes()); err != nil {
		return
	}

	csum := crc.CalculateCRC(crc.CRC64ISO, buf.Bytes())
	if _, err = fmt.Fprintf(zw, "%s%016x\n", crcTrailer, csum); err != nil {
		return
	}

	return zw.Close()
}

// Reads a pool from a snapshot file, verifying the CRC trailer
func Load(fname string) (p *Pool, err error) {
	f, err := os.Open(fname)
	if err != nil {
		return
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return
	}
	defer zr.Close()

	var buf bytes.Buffer
	var csum uint64
	gotsum := false

	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		l := sc.Text()
		if strings.HasPrefix(l, crcTrailer) {
			csum, err = strconv.ParseUint(l[len(crcTrailer):], 16, 64)
			if err != nil {
				return nil, fmt.Errorf("bad checksum trailer: %w", err)
			}

			gotsum = true
			break
		}

		buf.WriteString(l)
		buf.WriteByte('\n')
	}

	if err = sc.Err(); err != nil {
		return
	}

	if !gotsum {
		return nil, fmt.Errorf("snapshot has no checksum trailer")
	}

	if c := crc.CalculateCRC(crc.CRC64ISO, buf.Bytes()); c != csum {
		return nil, fmt.Errorf("snapshot checksum mismatch: got %016x expected %016x", c, csum)
	}

	p = New()
	psc := bufio.NewScanner(&buf)
	for psc.Scan() {
		ls := strings.Split(psc.Text(), ",")
		if len(ls) != 4 {
			return nil, fmt.Errorf("bad snapshot line: %s", psc.Text())
		}

		id, err := strconv.ParseUint(ls[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id: %w", err)
		}

		var v [3]float64
		for i := 0; i < 3; i++ {
			if v[i], err = strconv.ParseFloat(ls[i+1], 64); err != nil {
				return nil, fmt.Errorf("bad field %d: %w", i+1, err)
			}
		}

		p.SetCount(id, v[0], v[1], v[2])
	}

	return p, psc.Err()
}
