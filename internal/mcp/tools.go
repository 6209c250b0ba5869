package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions for the SQLGram MCP server.

func listTutorialsTool() mcp.Tool {
	return mcp.NewTool("sqlgram_list_tutorials",
		mcp.WithDescription("List the SQL tutorials in lesson order with the learner's completion percentage for each."),
	)
}

func getExerciseTool() mcp.Tool {
	return mcp.NewTool("sqlgram_get_exercise",
		mcp.WithDescription("Get an exercise prompt and the learner's attempts so far. The reference solution is only included on request."),
		mcp.WithString("exercise_id",
			mcp.Required(),
			mcp.Description("Exercise id such as select-1"),
		),
		mcp.WithBoolean("include_solution",
			mcp.Description("Include the reference solution (default: false)"),
		),
	)
}

func checkExerciseTool() mcp.Tool {
	return mcp.NewTool("sqlgram_check_exercise",
		mcp.WithDescription("Grade a SQL query against an exercise and record the attempt in the learner's progress."),
		mcp.WithString("exercise_id",
			mcp.Required(),
			mcp.Description("Exercise id such as select-1"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The SQL the learner submitted"),
		),
	)
}

func getProgressTool() mcp.Tool {
	return mcp.NewTool("sqlgram_get_progress",
		mcp.WithDescription("Get the learner's full progress: per tutorial, per exercise attempts and the overall percentage."),
	)
}

func resetProgressTool() mcp.Tool {
	return mcp.NewTool("sqlgram_reset_progress",
		mcp.WithDescription("Discard all tutorial progress. This cannot be undone."),
	)
}

func runQueryTool() mcp.Tool {
	return mcp.NewTool("sqlgram_run_query",
		mcp.WithDescription("Run SQL against the sample database (users, products, orders, order_items) and return the rows. Changes persist until the database is reset."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("One or more SQL statements separated by semicolons"),
		),
	)
}

func resetDatabaseTool() mcp.Tool {
	return mcp.NewTool("sqlgram_reset_database",
		mcp.WithDescription("Restore the sample database to its original schema and data."),
	)
}

func getHistoryTool() mcp.Tool {
	return mcp.NewTool("sqlgram_get_history",
		mcp.WithDescription("List recently run playground queries, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default: 10, max: 20)"),
		),
	)
}
