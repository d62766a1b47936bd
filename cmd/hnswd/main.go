// Copyright (c) 2024 redis-hnsw Contributors
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following
// conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zhao-lang/redis-hnsw"
	"github.com/zhao-lang/redis-hnsw/persist"
	"github.com/zhao-lang/redis-hnsw/vector"
)

func main() {
	cli := &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		indices: make(map[string]*hnsw.Index),
	}
	os.Exit(cli.Run(os.Args[1:]))
}

// CLI is a standalone demo host for the HNSW command table: a line-oriented
// dispatcher reading one command per line from stdin, holding indices by
// name in memory, and optionally checkpointing them to a LevelDB-backed
// persist.Store between runs. It is not a real key-value server's module
// interface, only a stand-in for driving the core by hand.
type CLI struct {
	Out io.Writer
	Err io.Writer

	indices map[string]*hnsw.Index
	store   *persist.Store
}

// Run parses a leading -db flag (path to a LevelDB directory for
// checkpointing), loads any saved indices, then reads commands from stdin
// until EOF.
func (c *CLI) Run(args []string) int {
	var dbPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "-db" && i+1 < len(args) {
			dbPath = args[i+1]
			i++
		}
	}

	if dbPath != "" {
		store, err := persist.Open(dbPath)
		if err != nil {
			fmt.Fprintf(c.Err, "failed to open store: %v\n", err)
			return 1
		}
		c.store = store
		defer c.store.Close()

		names, err := c.store.Names()
		if err != nil {
			fmt.Fprintf(c.Err, "failed to list checkpoints: %v\n", err)
			return 1
		}
		for _, name := range names {
			blob, err := c.store.Load(name)
			if err != nil {
				fmt.Fprintf(c.Err, "failed to load %q: %v\n", name, err)
				continue
			}
			idx, err := hnsw.Deserialize(blob)
			if err != nil {
				fmt.Fprintf(c.Err, "failed to restore %q: %v\n", name, err)
				continue
			}
			c.indices[name] = idx
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintln(c.Out, c.dispatch(strings.Fields(line)))
	}
	return 0
}

// dispatch runs one command line and returns the reply text, matching the
// command table's reply shapes loosely (OK / error-tag message / field
// list) for a terminal rather than a binary wire protocol.
func (c *CLI) dispatch(tok []string) string {
	if len(tok) == 0 {
		return errReply(hnsw.ErrBadArg)
	}

	switch strings.ToUpper(tok[0]) {
	case "HNSW.NEW":
		return c.cmdNew(tok[1:])
	case "HNSW.GET":
		return c.cmdGet(tok[1:])
	case "HNSW.DEL":
		return c.cmdDel(tok[1:])
	case "HNSW.NODE.ADD":
		return c.cmdNodeAdd(tok[1:])
	case "HNSW.NODE.GET":
		return c.cmdNodeGet(tok[1:])
	case "HNSW.NODE.DEL":
		return c.cmdNodeDel(tok[1:])
	case "HNSW.SEARCH":
		return c.cmdSearch(tok[1:])
	default:
		return errReply(hnsw.ErrBadArg)
	}
}

func (c *CLI) cmdNew(args []string) string {
	if len(args) < 3 || strings.ToUpper(args[1]) != "DIM" {
		return errReply(hnsw.ErrBadArg)
	}
	name := args[0]
	dim, err := strconv.Atoi(args[2])
	if err != nil {
		return errReply(hnsw.ErrBadArg)
	}

	var opts []hnsw.Option
	for i := 3; i < len(args)-1; i++ {
		switch strings.ToUpper(args[i]) {
		case "M":
			m, err := strconv.Atoi(args[i+1])
			if err != nil {
				return errReply(hnsw.ErrBadArg)
			}
			opts = append(opts, hnsw.WithM(m))
			i++
		case "EFCON":
			ef, err := strconv.Atoi(args[i+1])
			if err != nil {
				return errReply(hnsw.ErrBadArg)
			}
			opts = append(opts, hnsw.WithEfConstruction(ef))
			i++
		default:
			return errReply(hnsw.ErrBadArg)
		}
	}

	idx, err := hnsw.New(name, dim, opts...)
	if err != nil {
		return errReply(err)
	}
	c.indices[name] = idx
	c.checkpoint(name)
	return "OK"
}

func (c *CLI) cmdGet(args []string) string {
	idx, ok := c.indices[firstOrEmpty(args)]
	if !ok {
		return errReply(hnsw.ErrNotFound)
	}
	a := idx.Get()
	return fmt.Sprintf("name=%s dim=%d m=%d ef_construction=%d max_layer=%d entry_point=%s node_count=%d",
		a.Name, a.Dim, a.M, a.EfConstruction, a.MaxLayer, a.EntryPoint, a.NodeCount)
}

func (c *CLI) cmdDel(args []string) string {
	name := firstOrEmpty(args)
	if _, ok := c.indices[name]; !ok {
		return errReply(hnsw.ErrNotFound)
	}
	delete(c.indices, name)
	if c.store != nil {
		_ = c.store.Delete(name)
	}
	return "OK"
}

func (c *CLI) cmdNodeAdd(args []string) string {
	if len(args) < 3 || strings.ToUpper(args[2]) != "DATA" {
		return errReply(hnsw.ErrBadArg)
	}
	idx, ok := c.indices[args[0]]
	if !ok {
		return errReply(hnsw.ErrNotFound)
	}
	node := args[1]

	v, err := parseVector(args[3:])
	if err != nil {
		return errReply(hnsw.ErrBadArg)
	}

	if err := idx.NodeAdd(node, v); err != nil {
		return errReply(err)
	}
	c.checkpoint(args[0])
	return "OK"
}

func (c *CLI) cmdNodeGet(args []string) string {
	if len(args) < 2 {
		return errReply(hnsw.ErrBadArg)
	}
	idx, ok := c.indices[args[0]]
	if !ok {
		return errReply(hnsw.ErrNotFound)
	}
	na, err := idx.NodeGet(args[1])
	if err != nil {
		return errReply(err)
	}
	return fmt.Sprintf("name=%s vector=%v layer=%d neighbors=%v", na.Name, na.Vector, na.Layer, na.Neighbors)
}

func (c *CLI) cmdNodeDel(args []string) string {
	if len(args) < 2 {
		return errReply(hnsw.ErrBadArg)
	}
	idx, ok := c.indices[args[0]]
	if !ok {
		return errReply(hnsw.ErrNotFound)
	}
	if err := idx.NodeDel(args[1]); err != nil {
		return errReply(err)
	}
	c.checkpoint(args[0])
	return "OK"
}

func (c *CLI) cmdSearch(args []string) string {
	if len(args) < 3 || strings.ToUpper(args[1]) != "K" {
		return errReply(hnsw.ErrBadArg)
	}
	idx, ok := c.indices[args[0]]
	if !ok {
		return errReply(hnsw.ErrNotFound)
	}
	k, err := strconv.Atoi(args[2])
	if err != nil {
		return errReply(hnsw.ErrBadArg)
	}

	rest := args[3:]
	if len(rest) == 0 || strings.ToUpper(rest[0]) != "QUERY" {
		return errReply(hnsw.ErrBadArg)
	}
	q, err := parseVector(rest[1:])
	if err != nil {
		return errReply(hnsw.ErrBadArg)
	}

	results, err := idx.Search(k, q)
	if err != nil {
		return errReply(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d", len(results))
	for _, r := range results {
		fmt.Fprintf(&b, " %g %s", r.Distance, r.Name)
	}
	return b.String()
}

// checkpoint saves the named index's current state, if a store is
// configured. Errors are surfaced to stderr rather than failing the
// command, since checkpointing is a durability convenience, not part of
// the command's own contract.
func (c *CLI) checkpoint(name string) {
	if c.store == nil {
		return
	}
	idx, ok := c.indices[name]
	if !ok {
		return
	}
	blob, err := idx.Serialize()
	if err != nil {
		fmt.Fprintf(c.Err, "failed to serialize %q: %v\n", name, err)
		return
	}
	if err := c.store.Save(name, blob); err != nil {
		fmt.Fprintf(c.Err, "failed to checkpoint %q: %v\n", name, err)
	}
}

// parseVector expects the wire form {dim} {v1 ... vdim} and returns the
// parsed vector. The leading count must equal the number of values that
// follow; otherwise it returns ErrBadArg. Whether dim matches the index's
// dimensionality is left to the index call.
func parseVector(tok []string) (vector.Vector, error) {
	if len(tok) < 1 {
		return nil, hnsw.ErrBadArg
	}
	dim, err := strconv.Atoi(tok[0])
	if err != nil || dim != len(tok)-1 {
		return nil, hnsw.ErrBadArg
	}
	v := make(vector.Vector, dim)
	for i, s := range tok[1:] {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, hnsw.ErrBadArg
		}
		v[i] = float32(f)
	}
	return v, nil
}

func firstOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func errReply(err error) string {
	if e, ok := err.(*hnsw.Error); ok {
		return fmt.Sprintf("%s %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("INTERNAL %v", err)
}
