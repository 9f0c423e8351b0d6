package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/projection"
)

// JUnitWriter collects results and writes them as a JUnit XML document,
// one suite per top-level corpus directory.
type JUnitWriter struct {
	filePath   string
	properties map[string]string

	lock    sync.Mutex
	results []outcome.Result // in completion order
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName   xml.Name         `xml:"testcase"`
	Classname string           `xml:"classname,attr"`
	Name      string           `xml:"name,attr"`
	Time      string           `xml:"time,attr"`
	Failure   *jUnitXMLFailure `xml:"failure,omitempty"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

func NewJUnitWriter(filePath string, properties map[string]string) *JUnitWriter {
	return &JUnitWriter{filePath: filePath, properties: properties}
}

func (j *JUnitWriter) TestFinished(r outcome.Result) {
	j.lock.Lock()
	defer j.lock.Unlock()
	j.results = append(j.results, r)
}

// Write renders the collected results to the writer's file.
func (j *JUnitWriter) Write() error {
	j.lock.Lock()
	results := append([]outcome.Result(nil), j.results...)
	j.lock.Unlock()

	var properties []jUnitXMLProperty
	for _, k := range projection.SortedKeys(j.properties) {
		properties = append(properties, jUnitXMLProperty{Name: k, Value: j.properties[k]})
	}

	var doc jUnitXMLDocument
	for _, suiteName := range topLevelDirs(results) {
		suite := jUnitXMLTestSuite{
			Name:       "conformance: " + suiteName,
			Properties: properties,
		}
		total := time.Duration(0)
		for _, r := range results {
			if topLevelDir(r.Rel) != suiteName {
				continue
			}
			suite.Tests++
			total += r.Duration

			tc := jUnitXMLTestCase{
				Classname: suiteName,
				Name:      r.Rel,
				Time:      jUnitDurationString(r.Duration),
			}
			if !r.Outcome.Passed() {
				suite.Failures++
				msg := string(r.Outcome)
				if r.Reason != "" {
					msg += ": " + r.Reason
				}
				tc.Failure = &jUnitXMLFailure{
					Message:  msg,
					Type:     string(r.Outcome),
					Contents: r.Stderr,
				}
			}
			suite.TestCases = append(suite.TestCases, tc)
		}
		suite.Time = jUnitDurationString(total)
		doc.Suites = append(doc.Suites, suite)
	}

	bytes, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	bytes = append([]byte(xml.Header), append(bytes, '\n')...)

	return os.WriteFile(j.filePath, bytes, 0644) //nolint:gosec
}

func topLevelDir(rel string) string {
	if i := strings.Index(rel, "/"); i > 0 {
		return rel[:i]
	}
	return "."
}

func topLevelDirs(results []outcome.Result) []string {
	var ret []string
	seen := make(map[string]bool)
	for _, r := range results {
		d := topLevelDir(r.Rel)
		if !seen[d] {
			ret = append(ret, d)
			seen[d] = true
		}
	}
	return ret
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
