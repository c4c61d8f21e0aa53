/*
go-posture is a webcam posture monitor.  Frames are read from a camera, a
YOLOv8-pose model estimates the body keypoints of the person in front of it
and the horizontal offset between the left ear and left shoulder is used to
decide if that person is slouching.  Slouching must persist for an alert
delay before the "SIT UP STRAIGHT!" alert is raised, any other posture clears
it straight away.

The root package holds the model agnostic parts, the landmark data model, the
classifier and the debounce state machine.  They have no dependency on OpenCV
or the NPU runtime so can be used and tested on their own.

Pose inference runs either on the Rockchip NPU via the rknn sub package or on
the CPU with OpenCV DNN, see the pose sub package.  The monitor sub package
wires everything into the per frame loop and example/notifier is the program
that runs it against a webcam.
*/
package posture
