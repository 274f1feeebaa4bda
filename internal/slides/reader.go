// Package slides reads picture shapes out of PPTX slide decks.
package slides

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// maxPartSize bounds how much of a single archive member is read
const maxPartSize = 64 << 20

// Slide is one slide with the embedded picture blobs of its top-level
// picture shapes, in shape order
type Slide struct {
	Number   int
	Pictures []Picture
}

// Picture is an embedded image referenced by a picture shape
type Picture struct {
	Name string // archive path, e.g. ppt/media/image3.png
	Data []byte
}

// Read parses a PPTX archive and returns its slides in presentation order
func Read(content []byte) ([]Slide, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("opening PPTX: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	slidePaths := presentationOrder(files)
	if len(slidePaths) == 0 {
		slidePaths = fileNameOrder(files)
	}

	slides := make([]Slide, 0, len(slidePaths))
	for i, slidePath := range slidePaths {
		data, err := readPart(files, slidePath)
		if err != nil {
			return nil, fmt.Errorf("reading slide %d: %w", i+1, err)
		}

		var sx slideXML
		if err := xml.Unmarshal(data, &sx); err != nil {
			return nil, fmt.Errorf("parsing slide %d: %w", i+1, err)
		}

		slide := Slide{Number: i + 1}
		rels := readRels(files, relsPathFor(slidePath))
		for _, pic := range sx.CSld.SpTree.Pics {
			embed := pic.BlipFill.Blip.Embed
			rel, ok := rels[embed]
			if embed == "" || !ok || rel.TargetMode == "External" {
				continue
			}
			mediaPath := resolveTarget(slidePath, rel.Target)
			blob, err := readPart(files, mediaPath)
			if err != nil {
				continue
			}
			slide.Pictures = append(slide.Pictures, Picture{Name: mediaPath, Data: blob})
		}
		slides = append(slides, slide)
	}

	return slides, nil
}

type slideXML struct {
	CSld struct {
		SpTree struct {
			Pics []picXML `xml:"pic"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type picXML struct {
	BlipFill struct {
		Blip struct {
			Embed string `xml:"embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
}

type presentationXML struct {
	SldIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

type relationships struct {
	Rels []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// presentationOrder follows ppt/presentation.xml's slide id list
func presentationOrder(files map[string]*zip.File) []string {
	data, err := readPart(files, "ppt/presentation.xml")
	if err != nil {
		return nil
	}

	var px presentationXML
	if err := xml.Unmarshal(data, &px); err != nil {
		return nil
	}

	rels := readRels(files, "ppt/_rels/presentation.xml.rels")
	var paths []string
	for _, id := range px.SldIDs {
		rel, ok := rels[id.RID]
		if !ok {
			continue
		}
		p := resolveTarget("ppt/presentation.xml", rel.Target)
		if _, exists := files[p]; exists {
			paths = append(paths, p)
		}
	}
	return paths
}

// fileNameOrder sorts ppt/slides/slideN.xml by N
func fileNameOrder(files map[string]*zip.File) []string {
	type numbered struct {
		num  int
		path string
	}
	var found []numbered
	for name := range files {
		if !strings.HasPrefix(name, "ppt/slides/slide") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		var num int
		if _, err := fmt.Sscanf(strings.TrimPrefix(name, "ppt/slides/slide"), "%d", &num); err == nil && num > 0 {
			found = append(found, numbered{num: num, path: name})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].num < found[j].num })

	paths := make([]string, 0, len(found))
	for _, f := range found {
		paths = append(paths, f.path)
	}
	return paths
}

func readRels(files map[string]*zip.File, relsPath string) map[string]relationship {
	data, err := readPart(files, relsPath)
	if err != nil {
		return nil
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil
	}
	out := make(map[string]relationship, len(rels.Rels))
	for _, r := range rels.Rels {
		out[r.ID] = r
	}
	return out
}

func readPart(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("missing part %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxPartSize))
}

// relsPathFor maps ppt/slides/slide1.xml to ppt/slides/_rels/slide1.xml.rels
func relsPathFor(partPath string) string {
	dir, file := path.Split(partPath)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget resolves a relationship target relative to its source part
func resolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(path.Dir(sourcePart), target))
}
