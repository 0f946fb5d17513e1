package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"webhaak/pkg/response"
)

// jobStatus reports the lifecycle state of a job, its result once there is
// one, and the job's log.
// @Summary Job status
// @Description Poll the state of an enqueued job
// @Tags Hooks
// @Param jobid path string true "Job id"
// @Produce json
// @Success 200 {object} map[string]any
// @Router /status/{jobid} [get]
func (srv *HTTPServer) jobStatus(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("jobid")

	state, err := srv.queue.State(ctx, jobID)
	if err != nil {
		srv.l.Errorf(ctx, "Failed to read state for job %s: %v", jobID, err)
		response.InternalError(c, err)
		return
	}

	body := gin.H{"job_id": jobID, "status": state.Status}
	if state.Result != nil {
		result := gin.H{
			"status":  state.Result.Status,
			"runtime": state.Result.Runtime.Seconds(),
		}
		if state.Result.Type != "" {
			result["type"] = state.Result.Type
		}
		if state.Result.Message != "" {
			// Multi-line messages read better as a list of lines.
			result["message"] = strings.Split(state.Result.Message, "\n")
		}
		if state.Result.RepoResult != "" {
			result["repo_result"] = state.Result.RepoResult
		}
		body["result"] = result
	}

	if srv.jobLogs != nil {
		lines, err := srv.jobLogs.ReadLines(jobID)
		if err != nil {
			srv.l.Warnf(ctx, "Failed to read log for job %s: %v", jobID, err)
		} else if lines != nil {
			body["log"] = lines
		}
	}

	c.JSON(http.StatusOK, body)
}
