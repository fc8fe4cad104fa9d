package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/recommend"
)

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case []recommend.PersonRecommendation:
		return peopleTable(w, v)
	case []recommend.JobRecommendation:
		return jobsTable(w, v)
	case []database.User:
		return usersTable(w, v)
	case *database.User:
		return userDetail(w, v)
	case *database.Stats:
		return statsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func peopleTable(w io.Writer, recs []recommend.PersonRecommendation) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recommendations found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "NAME", "ROLE", "BRANCH", "SKILLS", "SCORE", "WHY")
	for _, r := range recs {
		if err := table.Append([]string{
			strconv.FormatInt(r.ID, 10),
			truncate(r.Name, 25),
			string(r.Role),
			truncate(r.Branch, 15),
			truncate(r.Skills, 30),
			strconv.Itoa(r.Score),
			summarize(r.Contributions),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func jobsTable(w io.Writer, recs []recommend.JobRecommendation) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No job recommendations found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "TITLE", "COMPANY", "POSTED BY", "MATCH", "WHY")
	for _, r := range recs {
		if err := table.Append([]string{
			strconv.FormatInt(r.ID, 10),
			truncate(r.Title, 30),
			truncate(r.Company, 20),
			truncate(r.PostedByName, 20),
			formatMatch(r.MatchScore),
			summarize(r.Contributions),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func usersTable(w io.Writer, users []database.User) error {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "NAME", "ROLE", "BRANCH", "CITY", "DOMAIN")
	for _, u := range users {
		if err := table.Append([]string{
			strconv.FormatInt(u.ID, 10),
			truncate(u.Name, 25),
			string(u.Role),
			truncate(u.Branch, 15),
			truncate(u.City, 15),
			truncate(u.CurrentDomain, 20),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func userDetail(w io.Writer, u *database.User) error {
	fmt.Fprintf(w, "Name:        %s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(w, "Role:        %s\n", u.Role)

	if u.Branch != "" {
		fmt.Fprintf(w, "Branch:      %s\n", u.Branch)
	}
	if u.City != "" {
		fmt.Fprintf(w, "City:        %s\n", u.City)
	}
	if u.CurrentDomain != "" {
		fmt.Fprintf(w, "Domain:      %s\n", u.CurrentDomain)
	}
	if u.Skills != "" {
		fmt.Fprintf(w, "Skills:      %s\n", u.Skills)
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Joined:      %s\n", u.CreatedAt.Format("Jan 02, 2006"))
	}

	if u.Bio != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Bio:")
		fmt.Fprintln(w, indent(wordWrap(u.Bio, 76), "  "))
	}
	if u.Interests != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Interests:")
		fmt.Fprintln(w, indent(wordWrap(u.Interests, 76), "  "))
	}

	return nil
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Alumni Network Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total users:            %d\n", s.TotalUsers)
	fmt.Fprintf(w, "Students:               %d\n", s.Students)
	fmt.Fprintf(w, "Alumni:                 %d\n", s.Alumni)
	fmt.Fprintf(w, "Connections:            %d\n", s.Connections)
	fmt.Fprintf(w, "Pending requests:       %d\n", s.PendingRequests)
	fmt.Fprintf(w, "Job postings:           %d\n", s.Jobs)

	return nil
}

// summarize renders contributions as "rule+points" pairs, merging repeats
func summarize(contribs []recommend.Contribution) string {
	var order []string
	totals := make(map[string]float64)
	for _, c := range contribs {
		if _, ok := totals[c.Rule]; !ok {
			order = append(order, c.Rule)
		}
		totals[c.Rule] += c.Points
	}

	parts := make([]string, 0, len(order))
	for _, rule := range order {
		parts = append(parts, rule+"+"+formatMatch(totals[rule]))
	}
	return strings.Join(parts, " ")
}

func formatMatch(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func indent(text, prefix string) string {
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}

// wordWrap wraps text at the specified width
func wordWrap(text string, width int) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		if len(line) <= width {
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if len(currentLine)+1+len(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
		result.WriteString("\n")
	}

	return strings.TrimSuffix(result.String(), "\n")
}
