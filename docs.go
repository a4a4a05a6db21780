/*
Package gitql provides a SQL-dialect query engine over Git repositories.
Repositories are exposed as five virtual tables — refs, commits, branches,
diffs, and tags — queryable with a SELECT pipeline supporting WHERE, GROUP
BY, aggregation, HAVING, ORDER BY, OFFSET, and LIMIT, plus a SET statement
for session-scoped global variables.

	session, err := gitql.NewSession()
	source, err := gitsource.Open("/path/to/repo")
	result, err := session.Run(`SELECT name, repo FROM refs WHERE type = "branch"`, source)

A query never touches the filesystem or network directly; all physical
access goes through the RowSource interface, of which internal/gitsource
is the go-git-backed reference implementation. Running the same SELECT
with a FROM clause against several RowSources fans the query out across
all of them and appends their rows in the order given.
*/
package gitql
