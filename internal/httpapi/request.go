package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/utils"
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	return nil
}

// queryFrom turns the query string into list fields. page and pageSize
// drive pagination; every other parameter is a filter field.
func queryFrom(r *http.Request, pageSize int) crud.Query {
	values := r.URL.Query()
	fields := make(map[string]string, len(values))
	for k, vs := range values {
		if k == "page" || k == "pageSize" || len(vs) == 0 {
			continue
		}
		fields[k] = vs[0]
	}
	return crud.Query{
		Fields:   fields,
		Page:     utils.QueryInt(r, "page", 1),
		PageSize: utils.QueryInt(r, "pageSize", pageSize),
	}
}

// caller is the authenticated identity of a request, if any.
type caller struct {
	userID   string
	role     string
	sellerID string
}

func callerFrom(ctx context.Context) caller {
	id, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return caller{}
	}
	sellerID, _ := utils.GetSellerIDFromContext(ctx)
	return caller{
		userID:   id,
		role:     utils.GetUserRoleFromContext(ctx),
		sellerID: sellerID,
	}
}

func (c caller) isAdmin() bool  { return c.role == utils.RoleAdmin }
func (c caller) isSeller() bool { return c.role == utils.RoleSeller && c.sellerID != "" }
