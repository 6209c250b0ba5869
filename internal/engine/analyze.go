package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

// Statement kinds reported by Analyze.
const (
	KindSelect = "select"
	KindInsert = "insert"
	KindUpdate = "update"
	KindDelete = "delete"
	KindDDL    = "ddl"
	KindOther  = "other"
)

// QueryInfo summarises a learner script.
type QueryInfo struct {
	Kind            string   `json:"kind"`
	Tables          []string `json:"tables"`
	Mutating        bool     `json:"mutating"`
	Statements      int      `json:"statements"`
	IsDeterministic bool     `json:"isDeterministic"`
	Warning         string   `json:"warning,omitempty"`
}

var nonDeterministicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bRANDOM\(\s*\)`),
	regexp.MustCompile(`(?i)\bCURRENT_TIMESTAMP\b`),
	regexp.MustCompile(`(?i)\bCURRENT_TIME\b`),
	regexp.MustCompile(`(?i)\bCURRENT_DATE\b`),
	regexp.MustCompile(`(?i)'now'`),
}

var ddlKeywords = map[string]bool{
	"CREATE": true, "DROP": true, "ALTER": true,
}

// Analyze classifies every statement of script. The kind is that of the first
// statement; Mutating is set when any statement changes data or schema.
// Statements the MySQL-flavoured parser rejects are classified by their
// leading keyword.
func Analyze(script string) QueryInfo {
	info := QueryInfo{Kind: KindOther, IsDeterministic: true}
	tableMap := make(map[string]struct{})

	for i, stmt := range SplitStatements(script) {
		kind := analyzeStatement(stmt, tableMap)
		if i == 0 {
			info.Kind = kind
		}
		if kind != KindSelect && kind != KindOther {
			info.Mutating = true
		}
		info.Statements++
	}

	info.Tables = make([]string, 0, len(tableMap))
	for table := range tableMap {
		info.Tables = append(info.Tables, table)
	}
	sort.Strings(info.Tables)

	for _, pattern := range nonDeterministicPatterns {
		if match := pattern.FindString(script); match != "" {
			info.IsDeterministic = false
			info.Warning = fmt.Sprintf("Non-deterministic function detected: %s", match)
			break
		}
	}
	return info
}

func analyzeStatement(sql string, tableMap map[string]struct{}) string {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return keywordKind(sql)
	}

	switch stmt := stmt.(type) {
	case *sqlparser.Select:
		extractTablesFromSelect(stmt, tableMap)
		return KindSelect
	case *sqlparser.Union:
		return KindSelect
	case *sqlparser.Insert:
		tableMap[tableNameOf(stmt.Table)] = struct{}{}
		if sel, ok := stmt.Rows.(*sqlparser.Select); ok {
			extractTablesFromSelect(sel, tableMap)
		}
		return KindInsert
	case *sqlparser.Update:
		extractTablesFromTableExprs(stmt.TableExprs, tableMap)
		if stmt.Where != nil {
			extractTablesFromExpr(stmt.Where.Expr, tableMap)
		}
		return KindUpdate
	case *sqlparser.Delete:
		extractTablesFromTableExprs(stmt.TableExprs, tableMap)
		if stmt.Where != nil {
			extractTablesFromExpr(stmt.Where.Expr, tableMap)
		}
		return KindDelete
	default:
		return keywordKind(sql)
	}
}

// keywordKind classifies a statement by its first keyword.
func keywordKind(sql string) string {
	fields := strings.Fields(stripLeadingComments(sql))
	if len(fields) == 0 {
		return KindOther
	}
	word := strings.ToUpper(strings.TrimRight(fields[0], "("))
	switch {
	case word == "SELECT" || word == "WITH" || word == "VALUES":
		return KindSelect
	case word == "INSERT" || word == "REPLACE":
		return KindInsert
	case word == "UPDATE":
		return KindUpdate
	case word == "DELETE":
		return KindDelete
	case ddlKeywords[word]:
		return KindDDL
	default:
		return KindOther
	}
}

func stripLeadingComments(sql string) string {
	for {
		sql = strings.TrimSpace(sql)
		switch {
		case strings.HasPrefix(sql, "--"):
			if i := strings.IndexByte(sql, '\n'); i >= 0 {
				sql = sql[i+1:]
				continue
			}
			return ""
		case strings.HasPrefix(sql, "/*"):
			if i := strings.Index(sql, "*/"); i >= 0 {
				sql = sql[i+2:]
				continue
			}
			return ""
		}
		return sql
	}
}

func extractTablesFromSelect(stmt *sqlparser.Select, tableMap map[string]struct{}) {
	extractTablesFromTableExprs(stmt.From, tableMap)
	if stmt.Where != nil {
		extractTablesFromExpr(stmt.Where.Expr, tableMap)
	}
}

func extractTablesFromTableExprs(exprs sqlparser.TableExprs, tableMap map[string]struct{}) {
	for _, expr := range exprs {
		extractTablesFromTableExpr(expr, tableMap)
	}
}

func extractTablesFromTableExpr(expr sqlparser.TableExpr, tableMap map[string]struct{}) {
	switch expr := expr.(type) {
	case *sqlparser.AliasedTableExpr:
		switch inner := expr.Expr.(type) {
		case sqlparser.TableName:
			// SELECT without FROM parses as a read from dual.
			if name := tableNameOf(inner); name != "dual" {
				tableMap[name] = struct{}{}
			}
		case *sqlparser.Subquery:
			if sel, ok := inner.Select.(*sqlparser.Select); ok {
				extractTablesFromSelect(sel, tableMap)
			}
		}
	case *sqlparser.JoinTableExpr:
		extractTablesFromTableExpr(expr.LeftExpr, tableMap)
		extractTablesFromTableExpr(expr.RightExpr, tableMap)
		if expr.On != nil {
			extractTablesFromExpr(expr.On, tableMap)
		}
	case *sqlparser.ParenTableExpr:
		extractTablesFromTableExprs(expr.Exprs, tableMap)
	}
}

func extractTablesFromExpr(expr sqlparser.Expr, tableMap map[string]struct{}) {
	switch expr := expr.(type) {
	case *sqlparser.AndExpr:
		extractTablesFromExpr(expr.Left, tableMap)
		extractTablesFromExpr(expr.Right, tableMap)
	case *sqlparser.OrExpr:
		extractTablesFromExpr(expr.Left, tableMap)
		extractTablesFromExpr(expr.Right, tableMap)
	case *sqlparser.ComparisonExpr:
		extractTablesFromExpr(expr.Left, tableMap)
		extractTablesFromExpr(expr.Right, tableMap)
	case *sqlparser.Subquery:
		if sel, ok := expr.Select.(*sqlparser.Select); ok {
			extractTablesFromSelect(sel, tableMap)
		}
	}
}

func tableNameOf(name sqlparser.TableName) string {
	if name.Qualifier.IsEmpty() {
		return name.Name.String()
	}
	return name.Qualifier.String() + "." + name.Name.String()
}
