// Package planner computes rename and move plans before anything on disk is
// touched.
//
//   - PlanRename: resolves capture dates for the files of one directory and
//     allocates canonical names (rename.go)
//   - PlanMove: parses canonical names and allocates a place under
//     {base}/Pictures_YYYY/MM_YYYY (move.go)
//
// Plans are executed by the pipeline package.
package planner
