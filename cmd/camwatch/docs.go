package main

// General API documentation for swaggo. The generated description lives in
// internal/httpapi/apidocs and is served with -tags=swagger.
//
// @title           camwatch API
// @version         1.0
// @description     Preview server of the camera person-detection loop.
//
// @BasePath  /
//
// @schemes http
