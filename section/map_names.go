package section

import "github.com/octmgo/octm/wire"

// WriteMapNames emits the UV-map and attribute-map registry immediately
// after the common header: names and optional filenames aren't part of any
// per-map payload section (spec.md §4.6.11's "the map's name and optional
// filename live in the container header's map registry, not in the map
// payload"), so they're framed here, right after Header.Write, once per
// file.
func WriteMapNames(w *wire.Writer, uv []MapDescriptor, attrib []MapDescriptor) error {
	for _, d := range uv {
		if err := w.PutString(d.Name); err != nil {
			return err
		}
		if err := w.PutString(d.Filename); err != nil {
			return err
		}
	}

	for _, d := range attrib {
		if err := w.PutString(d.Name); err != nil {
			return err
		}
	}

	return nil
}

// ReadMapNames parses the UV-map and attribute-map registries written by
// WriteMapNames, given the counts already read from the common header.
func ReadMapNames(r *wire.Reader, uvCount, attribCount uint32) (uv []MapDescriptor, attrib []MapDescriptor, err error) {
	uv = make([]MapDescriptor, uvCount)
	for i := range uv {
		if uv[i].Name, err = r.String(); err != nil {
			return nil, nil, err
		}
		if uv[i].Filename, err = r.String(); err != nil {
			return nil, nil, err
		}
		uv[i].Components = 2
	}

	attrib = make([]MapDescriptor, attribCount)
	for i := range attrib {
		if attrib[i].Name, err = r.String(); err != nil {
			return nil, nil, err
		}
		attrib[i].Components = 4
	}

	return uv, attrib, nil
}
