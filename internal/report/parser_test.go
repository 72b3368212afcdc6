package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/femreport/internal/config"
	"github.com/san-kum/femreport/internal/report"
)

const fixture = "testdata/patch.out"

func loadFixture() report.Report {
	r, err := report.ReadFile(fixture)
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Parser", func() {
	var (
		parser *report.Parser
		rep    report.Report
	)

	BeforeEach(func() {
		parser = report.NewParser(config.MustLayout("stappp"))
		rep = loadFixture()
	})

	Context("with a well-formed report", func() {
		It("extracts one record per table row keyed by id", func() {
			res := parser.Parse(rep)

			Expect(res.Nodes).To(HaveLen(5))
			Expect(res.Elements).To(HaveLen(4))
			Expect(res.Coordinates).To(HaveLen(5))
			Expect(res.Connectivity).To(HaveLen(4))
			Expect(res.Loads).To(HaveLen(4))
			Expect(res.Diagnostics).To(BeEmpty())

			Expect(res.SortedNodeIDs()).To(Equal([]int{1, 2, 3, 4, 5}))
			Expect(res.SortedElementIDs()).To(Equal([]int{1, 2, 3, 4}))
		})

		It("decodes displacement and stress columns in order", func() {
			res := parser.Parse(rep)

			Expect(res.Nodes[3]).To(Equal(report.NodeRecord{ID: 3, UX: 2.5e-2, UY: -9e-3, UZ: 0, Dim: 3}))
			Expect(res.Nodes[4].UX).To(BeNumerically("~", 0, 1e-16))
			Expect(res.Elements[1].SXX).To(Equal(10.0))
			Expect(res.Elements[1].SYY).To(BeNumerically("~", 4.44089e-16, 1e-21))
			Expect(res.Elements[4].SXY).To(BeNumerically("~", -3.00241e-15, 1e-20))
		})

		It("reads the auxiliary tables", func() {
			res := parser.Parse(rep)

			Expect(res.Title).To(Equal("T3 patch test - constant strain"))
			Expect(res.Control).To(Equal(report.ControlInfo{NumNodes: 5, NumElementGroups: 1, NumLoadCases: 1}))
			Expect(res.Coordinates[3]).To(Equal(report.NodeGeometry{ID: 3, BC: [3]int{0, 0, 1}, X: 2.5, Y: 3.0}))
			Expect(res.Connectivity[2]).To(Equal(report.Connectivity{ID: 2, Nodes: [3]int{2, 3, 5}, MaterialSet: 1}))
			Expect(res.Loads[1]).To(Equal(map[int]float64{1: -10.0}))
			Expect(res.Loads[4][1]).To(Equal(-15.0))
		})

		It("keeps separators that appear inside the title", func() {
			titled := rep
			titled.Text = strings.Replace(rep.Text,
				"TITLE : T3 patch test - constant strain",
				"TITLE : cantilever E=2.1e5 L=2", 1)
			Expect(parser.Parse(titled).Title).To(Equal("cantilever E=2.1e5 L=2"))
		})

		It("is idempotent", func() {
			Expect(parser.Parse(rep)).To(Equal(parser.Parse(rep)))
		})
	})

	Context("with malformed rows inside a section", func() {
		It("skips them without disturbing the other rows", func() {
			clean := parser.Parse(rep)

			broken := rep
			broken.Text = strings.Replace(rep.Text,
				"     3        2.50000e-02",
				"     7        garbage\n     8        1.0e-03    abc    0.0\n     3        2.50000e-02", 1)
			res := parser.Parse(broken)

			Expect(res.Nodes).To(Equal(clean.Nodes))
			Expect(res.Elements).To(Equal(clean.Elements))
			Expect(res.Diagnostics).To(HaveLen(2))
			Expect(res.Diagnostics[0].Reason).To(Equal(report.ReasonTooFewFields))
			Expect(res.Diagnostics[1].Reason).To(Equal(report.ReasonBadValue))
			Expect(res.Diagnostics[1].Section).To(Equal("displacements"))
		})

		It("rejects signed and zero ids", func() {
			signed := rep
			signed.Text = strings.Replace(rep.Text,
				"     3        2.50000e-02",
				"    -3        1.0e-03    0.0    0.0\n     0        1.0e-03    0.0    0.0\n    +7        1.0e-03    0.0    0.0\n     3        2.50000e-02", 1)
			res := parser.Parse(signed)

			Expect(res.SortedNodeIDs()).To(Equal([]int{1, 2, 3, 4, 5}))
			Expect(res.Diagnostics).To(HaveLen(3))
			Expect(res.Diagnostics).To(HaveEach(HaveField("Reason", report.ReasonBadID)))
		})

		It("keeps the last of two rows with the same id and flags it", func() {
			dup := rep
			dup.Text = strings.Replace(rep.Text,
				"      4            1.00000e+01",
				"      1            9.90000e+00        0.0        0.0\n      4            1.00000e+01", 1)
			res := parser.Parse(dup)

			Expect(res.Elements).To(HaveLen(4))
			Expect(res.Elements[1].SXX).To(Equal(9.9))
			Expect(res.Diagnostics).To(ConsistOf(HaveField("Reason", report.ReasonDuplicateID)))
		})
	})

	Context("when a section header is absent", func() {
		It("yields an empty map instead of failing", func() {
			missing := rep
			missing.Text = strings.Replace(rep.Text, "D I S P L A C E M E N T S", "", 1)
			res := parser.Parse(missing)

			Expect(res.Nodes).NotTo(BeNil())
			Expect(res.Nodes).To(BeEmpty())
			Expect(res.Elements).To(HaveLen(4))
			Expect(res.Empty()).To(BeFalse())
		})

		It("reports an empty result for unrelated text", func() {
			res := parser.Parse(report.Report{Name: "notes.out", Text: "nothing to see here\n"})
			Expect(res.Empty()).To(BeTrue())
			Expect(res.Title).To(BeEmpty())
		})
	})

	Context("with a planar layout", func() {
		It("reads two displacement components", func() {
			planar := report.NewParser(config.MustLayout("stappp-2d"))
			text := `
 D I S P L A C E M E N T S

  NODE    X-DISPLACEMENT    Y-DISPLACEMENT
     1     1.0e-03          -2.0e-03
     2     3.0e-03          -4.0e-03
`
			res := planar.Parse(report.Report{Text: text})
			Expect(res.Nodes).To(HaveLen(2))
			Expect(res.Nodes[2]).To(Equal(report.NodeRecord{ID: 2, UX: 3e-3, UY: -4e-3, Dim: 2}))
		})
	})

	Context("with a logger", func() {
		It("emits one debug event per skipped row", func() {
			var buf bytes.Buffer
			logged := report.NewParser(config.MustLayout("stappp"),
				report.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

			broken := rep
			broken.Text = strings.Replace(rep.Text, "     5        1.00000e-02", "     x        1.00000e-02", 1)
			res := logged.Parse(broken)

			Expect(res.Diagnostics).To(HaveLen(1))
			Expect(res.Diagnostics[0].Reason).To(Equal(report.ReasonBadID))
			Expect(buf.String()).To(ContainSubstring(`"message":"row skipped"`))
			Expect(buf.String()).To(ContainSubstring(`"reason":"bad id"`))
		})
	})

	Describe("ParseFile", func() {
		It("parses a report from disk", func() {
			res, err := parser.ParseFile(fixture)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Source).To(Equal("patch.out"))
			Expect(res.Nodes).To(HaveLen(5))
		})

		It("signals a missing file distinctly", func() {
			_, err := parser.ParseFile(filepath.Join(GinkgoT().TempDir(), "absent.out"))
			Expect(err).To(MatchError(report.ErrMissingFile))
			Expect(err).To(MatchError(os.ErrNotExist))
		})
	})
})

var _ = Describe("Layout", func() {
	It("rejects a layout without any table header", func() {
		Expect(report.Layout{Name: "empty"}.Validate()).To(MatchError(report.ErrInvalidLayout))
	})

	It("rejects a stress section with the wrong column count", func() {
		l := config.MustLayout("stappp")
		l.Stresses.Columns = []int{1, 2}
		Expect(l.Validate()).To(MatchError(report.ErrInvalidLayout))
	})
})
