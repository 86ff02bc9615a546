package commands

import (
	"sort"
	"strings"

	"github.com/pixil98/go-party/internal/display"
	"github.com/pixil98/go-party/internal/party"
)

const screenTemplate = `[ Party {{ .ID | trunc 8 }} ] {{ len .Members }} {{ if eq (len .Members) 1 }}member{{ else }}members{{ end }}
{{ range .Members }}{{ if eq .Name $.Leader }}[Leader]{{ else }}[Member]{{ end }} {{ .Name }}
{{ end }}`

type screenMember struct {
	Name   string
	leader bool
}

type screenData struct {
	ID      string
	Leader  string
	Members []screenMember
}

// RenderScreen draws the text-mode party screen: leader first, then the
// rest alphabetically.
func RenderScreen(v party.View) (string, error) {
	data := screenData{
		ID:     string(v.ID),
		Leader: string(v.Leader),
	}
	for _, id := range v.Members {
		data.Members = append(data.Members, screenMember{Name: string(id), leader: id == v.Leader})
	}

	sort.Slice(data.Members, func(i, j int) bool {
		if data.Members[i].leader != data.Members[j].leader {
			return data.Members[i].leader
		}
		return data.Members[i].Name < data.Members[j].Name
	})

	out, err := ExpandTemplate(screenTemplate, data)
	if err != nil {
		return "", err
	}
	return display.Wrap(strings.TrimSuffix(out, "\n")), nil
}
