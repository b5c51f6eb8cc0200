package reconcile

import (
	"fmt"

	"github.com/harrison/eezsync/internal/decl"
)

// RenderStub returns the text appended to the sink for a missing action.
// The parameter list is copied from the declaration so the definition
// matches its prototype in the header.
//
//	\nvoid action_go(lv_event_t * e) {\n\t// TODO: implement action_go\n}\n
func RenderStub(d decl.Declaration) string {
	params := d.Params
	if params == "" {
		params = "void"
	}
	return fmt.Sprintf("\nvoid %s(%s) {\n\t// TODO: implement %s\n}\n", d.Name, params, d.Name)
}
