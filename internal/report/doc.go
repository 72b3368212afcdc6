// Package report extracts tabular results from finite-element text reports.
//
// A report is scanned in two phases:
//
//   - [Locate]: find a section by literal header marker and cut its body
//   - [ScanRows] / [ExtractRows]: tokenize each body line into an id and fields
//
// [Parser] drives both phases for every section named in a [Layout] and
// collects the records into a [Result]. Lines that fail to decode never
// abort a section; they are recorded as [Diagnostic] values instead.
//
// # Example
//
//	p := report.NewParser(config.MustLayout("stappp"))
//	res, err := p.ParseFile("cantilever.out")
//	if err != nil {
//	    // missing or unreadable file
//	}
//	for _, id := range res.SortedNodeIDs() {
//	    fmt.Println(id, res.Nodes[id].UY)
//	}
//
// A section whose header is absent is not an error: the matching map is
// simply empty.
package report
