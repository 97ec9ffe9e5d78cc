package fileref

import "strings"

// Kind distingue un archivo ya subido (remoto) de uno recién elegido (local).
type Kind string

const (
	KindRemote Kind = "remote"
	KindLocal  Kind = "local"
)

// Ref es la variante etiquetada que reemplaza el sniffing de "http://" en strings.
// Un Remote nunca se re-sube; un Local siempre viaja como parte multipart.
type Ref struct {
	Kind Kind

	// Remote: URL ya servida por el backend (p.ej. /static/uploads/...).
	URL string

	// Local: ruta en disco + metadata para el encoding multipart.
	Path     string
	Filename string
	MIMEType string
}

// Remote crea una referencia a un archivo que ya vive en el servidor.
func Remote(url string) Ref {
	return Ref{Kind: KindRemote, URL: strings.TrimSpace(url)}
}

// Local crea una referencia a un archivo elegido en el dispositivo.
// Si filename viene vacío se usa el último segmento del path.
func Local(path, filename, mimeType string) Ref {
	path = strings.TrimSpace(path)
	filename = strings.TrimSpace(filename)
	if filename == "" {
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			filename = path[i+1:]
		} else {
			filename = path
		}
	}
	return Ref{
		Kind:     KindLocal,
		Path:     path,
		Filename: filename,
		MIMEType: strings.TrimSpace(mimeType),
	}
}

func (r Ref) IsZero() bool {
	return r.Kind == ""
}

func (r Ref) IsRemote() bool {
	return r.Kind == KindRemote
}

func (r Ref) IsLocal() bool {
	return r.Kind == KindLocal
}
