package cercactl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dalemusser/cercadeti/internal/domain/models"
)

func (r runner) categories(ctx context.Context) error {
	cats, err := r.client.Categories(ctx)
	if err != nil {
		return err
	}
	if r.cfg.JSONOutput {
		return r.printJSON(cats)
	}
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{c.ID.Hex(), c.Slug, c.Name})
	}
	return r.table("ID\tSLUG\tNAME", rows)
}

func (r runner) zones(ctx context.Context) error {
	city := ""
	if len(r.cfg.Args) > 1 {
		city = r.cfg.Args[1]
	}
	zones, err := r.client.Zones(ctx, city)
	if err != nil {
		return err
	}
	if r.cfg.JSONOutput {
		return r.printJSON(zones)
	}
	rows := make([][]string, 0, len(zones))
	for _, z := range zones {
		rows = append(rows, []string{z.ID.Hex(), z.Slug, z.Name, z.City})
	}
	return r.table("ID\tSLUG\tNAME\tCITY", rows)
}

func (r runner) pending(ctx context.Context) error {
	verb, id, err := r.sub(map[string]bool{"list": false, "show": true, "approve": true, "reject": true})
	if err != nil {
		return err
	}
	if err := r.login(ctx); err != nil {
		return err
	}

	switch verb {
	case "list":
		list, pg, err := r.client.PendingBusinesses(ctx, r.listOptions())
		if err != nil {
			return err
		}
		if r.cfg.JSONOutput {
			return r.printJSON(list)
		}
		rows := make([][]string, 0, len(list))
		for _, p := range list {
			rows = append(rows, []string{p.DocumentID, p.Status, p.Name, relationName(p), p.SubmittedAt.Format("2006-01-02 15:04")})
		}
		if err := r.table("DOCUMENT ID\tSTATUS\tNAME\tCATEGORY\tSUBMITTED", rows); err != nil {
			return err
		}
		r.pageFooter(pg)
		return nil
	case "show":
		p, err := r.client.PendingBusiness(ctx, id)
		if err != nil {
			return err
		}
		return r.printJSON(p)
	case "approve":
		p, err := r.client.Approve(ctx, id)
		if err != nil {
			return err
		}
		return r.reviewed(p)
	default:
		p, err := r.client.Reject(ctx, id)
		if err != nil {
			return err
		}
		return r.reviewed(p)
	}
}

func (r runner) reviewed(p models.PendingBusiness) error {
	if r.cfg.JSONOutput {
		return r.printJSON(p)
	}
	fmt.Fprintf(r.out, "%s %s\n", p.DocumentID, p.Status)
	if p.BusinessID != nil {
		fmt.Fprintf(r.out, "listing %s\n", p.BusinessID.Hex())
	}
	return nil
}

func relationName(p models.PendingBusiness) string {
	switch {
	case p.Category != nil:
		return p.Category.Name
	case p.CustomCategoryName != "":
		return p.CustomCategoryName + " (custom)"
	default:
		return "-"
	}
}

func (r runner) contacts(ctx context.Context) error {
	verb, id, err := r.sub(map[string]bool{"list": false, "read": true, "replied": true})
	if err != nil {
		return err
	}
	if err := r.login(ctx); err != nil {
		return err
	}

	switch verb {
	case "list":
		list, pg, err := r.client.ContactSubmissions(ctx, r.listOptions())
		if err != nil {
			return err
		}
		if r.cfg.JSONOutput {
			return r.printJSON(list)
		}
		rows := make([][]string, 0, len(list))
		for _, c := range list {
			rows = append(rows, []string{c.DocumentID, c.Status, c.Name, c.Email, strconv.Itoa(len(c.Message))})
		}
		if err := r.table("DOCUMENT ID\tSTATUS\tNAME\tEMAIL\tLENGTH", rows); err != nil {
			return err
		}
		r.pageFooter(pg)
		return nil
	case "read":
		c, err := r.client.MarkRead(ctx, id)
		if err != nil {
			return err
		}
		return r.contactDone(c)
	default:
		c, err := r.client.MarkReplied(ctx, id)
		if err != nil {
			return err
		}
		return r.contactDone(c)
	}
}

func (r runner) contactDone(c models.ContactSubmission) error {
	if r.cfg.JSONOutput {
		return r.printJSON(c)
	}
	_, err := fmt.Fprintf(r.out, "%s %s\n", c.DocumentID, c.Status)
	return err
}

