package drive

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Session tree layout, relative to the store root.
const (
	BaseFolder    = "Base"
	UploadsFolder = "Uploads"
	PlayersFolder = "Eleves"
	GroupFolder   = "Groupe"
)

// UploadPath returns the folder that archives the raw CSV files of one
// session.
func UploadPath(sessionDate string) string {
	return path.Join(UploadsFolder, sessionDate)
}

// PlayerPath returns the folder that holds one player's documents for
// one session.
func PlayerPath(alias, sessionDate string) string {
	return path.Join(PlayersFolder, alias, sessionDate)
}

// GroupPath returns the folder that holds the group documents for one
// session.
func GroupPath(sessionDate string) string {
	return path.Join(GroupFolder, sessionDate)
}

// Publisher copies session artifacts into the store's fixed layout.
type Publisher struct {
	Store Store
	Log   *logrus.Logger
}

// Init creates the top-level session tree.
func (p *Publisher) Init() error {
	for _, dir := range []string{BaseFolder, UploadsFolder, PlayersFolder, GroupFolder} {
		if _, err := p.Store.EnsurePath(dir); err != nil {
			return err
		}
	}
	return nil
}

// ArchiveSources stores the raw input files under Uploads/<date>/.
func (p *Publisher) ArchiveSources(sessionDate string, files []string) error {
	for _, file := range files {
		if err := p.put(UploadPath(sessionDate), file); err != nil {
			return err
		}
	}
	return nil
}

// PublishBase stores a session-wide artifact (workbook) under Base/ and
// keeps a dated archive copy under Uploads/<date>/.
func (p *Publisher) PublishBase(sessionDate, file string) error {
	if err := p.put(BaseFolder, file); err != nil {
		return err
	}
	return p.put(UploadPath(sessionDate), file)
}

// PublishDocument routes one generated document to its folder: group
// documents under Groupe/<date>/, player documents under
// Eleves/<alias>/<date>/. The alias is read from the fixed
// Model<letter>_<alias>_<date>.pdf naming scheme.
func (p *Publisher) PublishDocument(sessionDate, file string) error {
	alias, ok := documentAlias(filepath.Base(file))
	if !ok {
		return fmt.Errorf("publish %s: unrecognized document name", filepath.Base(file))
	}
	dir := GroupPath(sessionDate)
	if alias != "GROUPE" {
		dir = PlayerPath(alias, sessionDate)
	}
	return p.put(dir, file)
}

func (p *Publisher) put(dir, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("publish %s: %w", filepath.Base(file), err)
	}
	defer f.Close()

	dst, err := p.Store.Upload(dir, filepath.Base(f.Name()), f)
	if err != nil {
		return err
	}
	p.Log.WithFields(logrus.Fields{"file": filepath.Base(file), "dest": dst}).Debug("published")
	return nil
}

// documentAlias extracts the alias segment from a document filename.
func documentAlias(name string) (string, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) < 3 || !strings.HasPrefix(parts[0], "Model") {
		return "", false
	}
	return strings.Join(parts[1:len(parts)-1], "_"), true
}
