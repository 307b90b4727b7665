package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/devrim/hostelhub/internal/app/controllers"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/middleware"
	"github.com/devrim/hostelhub/internal/pkg/websocket"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Hostel    *controllers.HostelController
	Room      *controllers.RoomController
	Student   *controllers.StudentController
	Fee       *controllers.FeeController
	Complaint *controllers.ComplaintController
	Expense   *controllers.ExpenseController
	Dashboard *controllers.DashboardController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrls Controllers,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrls.Auth.Login)
		auth.POST("/refresh", ctrls.Auth.Refresh)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", ctrls.Auth.Profile)
		authenticated.PUT("/auth/password", ctrls.Auth.ChangePassword)

		// Hostel routes. Reads are scoped per caller; writes are owner-only.
		hostels := authenticated.Group("/hostels")
		{
			hostels.GET("", ctrls.Hostel.ListHostels)
			hostels.GET("/:id", ctrls.Hostel.GetHostel)

			hostelsOwnerProtected := hostels.Group("")
			hostelsOwnerProtected.Use(authMiddleware.RoleRequired(models.RoleOwner))
			{
				hostelsOwnerProtected.POST("", ctrls.Hostel.CreateHostel)
				hostelsOwnerProtected.PUT("/:id", ctrls.Hostel.UpdateHostel)
				hostelsOwnerProtected.DELETE("/:id", ctrls.Hostel.DeleteHostel)
			}
		}

		// Manager account routes (owner-only)
		users := authenticated.Group("/users")
		users.Use(authMiddleware.RoleRequired(models.RoleOwner))
		{
			users.POST("/managers", ctrls.User.CreateManager)
			users.GET("/managers", ctrls.User.ListManagers)
			users.PUT("/managers/:id", ctrls.User.UpdateManager)
			users.DELETE("/managers/:id", ctrls.User.DeleteManager)
		}

		// Room routes
		rooms := authenticated.Group("/rooms")
		{
			rooms.POST("", ctrls.Room.CreateRoom)
			rooms.GET("", ctrls.Room.ListRooms)
			rooms.GET("/available", ctrls.Room.ListAvailable)
			rooms.POST("/bulk-status", ctrls.Room.BulkUpdateStatus)
			rooms.GET("/:id", ctrls.Room.GetRoom)
			rooms.PUT("/:id", ctrls.Room.UpdateRoom)
			rooms.DELETE("/:id", ctrls.Room.DeleteRoom)
		}

		// Student routes
		students := authenticated.Group("/students")
		{
			students.POST("", ctrls.Student.CreateStudent)
			students.GET("", ctrls.Student.ListStudents)
			students.GET("/:id", ctrls.Student.GetStudent)
			students.PUT("/:id", ctrls.Student.UpdateStudent)
			students.PUT("/:id/room", ctrls.Student.TransferRoom)
			students.PUT("/:id/details", ctrls.Student.UpdateDetails)
			students.DELETE("/:id", ctrls.Student.DeleteStudent)
		}

		// Fee routes
		fees := authenticated.Group("/fees")
		{
			fees.POST("", ctrls.Fee.CreateFee)
			fees.GET("", ctrls.Fee.ListFees)
			fees.GET("/overdue", ctrls.Fee.ListOverdue)
			fees.POST("/sweep", ctrls.Fee.Sweep)
			fees.GET("/:id", ctrls.Fee.GetFee)
			fees.PUT("/:id", ctrls.Fee.UpdateFee)
			fees.POST("/:id/pay", ctrls.Fee.PayFee)
			fees.POST("/:id/remind", ctrls.Fee.RemindFee)
			fees.DELETE("/:id", ctrls.Fee.DeleteFee)
		}

		// Complaint routes
		complaints := authenticated.Group("/complaints")
		{
			complaints.POST("", ctrls.Complaint.CreateComplaint)
			complaints.GET("", ctrls.Complaint.ListComplaints)
			complaints.GET("/:id", ctrls.Complaint.GetComplaint)
			complaints.PUT("/:id", ctrls.Complaint.UpdateComplaint)
			complaints.DELETE("/:id", ctrls.Complaint.DeleteComplaint)
		}

		// Expense routes
		expenses := authenticated.Group("/expenses")
		{
			expenses.POST("", ctrls.Expense.CreateExpense)
			expenses.GET("", ctrls.Expense.ListExpenses)
			expenses.GET("/month-total", ctrls.Expense.MonthTotal)
			expenses.GET("/:id", ctrls.Expense.GetExpense)
			expenses.PUT("/:id", ctrls.Expense.UpdateExpense)
			expenses.DELETE("/:id", ctrls.Expense.DeleteExpense)
		}

		// Dashboard routes
		dashboard := authenticated.Group("/dashboard")
		{
			dashboard.GET("/stats", ctrls.Dashboard.Stats)
			dashboard.POST("/stats/refresh", ctrls.Dashboard.Refresh)
		}

		// WebSocket event stream. The JWT arrives via the token query
		// parameter because browser WebSocket clients cannot set headers.
		authenticated.GET("/ws/dashboard", wsHandler.HandleConnection)
	}
}
