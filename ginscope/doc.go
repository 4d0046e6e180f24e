// Package ginscope gives every gin request its own dependency scope.
//
//	router := gin.New()
//	router.Use(ginscope.Middleware(app.Container))
//	router.GET("/orders/:id", func(c *gin.Context) {
//	    handler, err := ginscope.Resolve[*GetOrderHandler](c)
//	    ...
//	})
//
// Scoped registrations resolved during a request are shared within that
// request and disposed when the handler chain returns.
package ginscope
